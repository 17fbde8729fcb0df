package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"ticket-workers/internal/models"
)

const FormatXML = "xml"

// xmlWrapperMarker switches the parser into list mode when found anywhere in the text.
const xmlWrapperMarker = "<tickets>"

type xmlTicketList struct {
	XMLName xml.Name                     `xml:"tickets"`
	Tickets []models.CreateTicketRequest `xml:"tickets"`
}

// XMLParser reads either a <tickets> wrapper of repeated <tickets> elements or
// a single ticket document with any root element name.
type XMLParser struct{}

func NewXMLParser() *XMLParser {
	return &XMLParser{}
}

func (p *XMLParser) Format() string {
	return FormatXML
}

func (p *XMLParser) Parse(content []byte) ([]models.CreateTicketRequest, error) {
	if bytes.Contains(content, []byte(xmlWrapperMarker)) {
		var list xmlTicketList
		if err := xml.Unmarshal(content, &list); err != nil {
			return nil, xmlError(err)
		}
		if list.Tickets == nil {
			return []models.CreateTicketRequest{}, nil
		}
		return list.Tickets, nil
	}

	var req models.CreateTicketRequest
	if err := xml.Unmarshal(content, &req); err != nil {
		return nil, xmlError(err)
	}
	return []models.CreateTicketRequest{req}, nil
}

func xmlError(err error) *ParseError {
	return &ParseError{
		Format:  FormatXML,
		Message: fmt.Sprintf("Error parsing XML file: %v", err),
		Err:     err,
	}
}
