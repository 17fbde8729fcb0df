package models

import "encoding/xml"

// UnmarshalXML reads <tags> with any child element name, so both
// <tags><tag>a</tag></tags> and <tags><tags>a</tags></tags> yield ["a"].
func (r *CreateTicketRequest) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type plain CreateTicketRequest
	var aux struct {
		plain
		Tags *xmlTagList `xml:"tags"`
	}
	if err := d.DecodeElement(&aux, &start); err != nil {
		return err
	}

	*r = CreateTicketRequest(aux.plain)
	if aux.Tags != nil {
		r.Tags = aux.Tags.values
	}
	return nil
}

type xmlTagList struct {
	values []string
}

func (l *xmlTagList) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	l.values = []string{}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var v string
			if err := d.DecodeElement(&v, &t); err != nil {
				return err
			}
			l.values = append(l.values, v)
		case xml.EndElement:
			return nil
		}
	}
}
