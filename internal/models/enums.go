package models

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryAccountAccess   Category = "ACCOUNT_ACCESS"
	CategoryTechnicalIssue  Category = "TECHNICAL_ISSUE"
	CategoryBillingQuestion Category = "BILLING_QUESTION"
	CategoryFeatureRequest  Category = "FEATURE_REQUEST"
	CategoryBugReport       Category = "BUG_REPORT"
	CategoryOther           Category = "OTHER"
)

// Categories lists every category in classification order.
var Categories = []Category{
	CategoryAccountAccess,
	CategoryTechnicalIssue,
	CategoryBillingQuestion,
	CategoryFeatureRequest,
	CategoryBugReport,
	CategoryOther,
}

type Priority string

const (
	PriorityUrgent Priority = "URGENT"
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Priorities lists every priority in classification order.
var Priorities = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

type Status string

const (
	StatusNew             Status = "NEW"
	StatusInProgress      Status = "IN_PROGRESS"
	StatusWaitingCustomer Status = "WAITING_CUSTOMER"
	StatusResolved        Status = "RESOLVED"
	StatusClosed          Status = "CLOSED"
)

var Statuses = []Status{StatusNew, StatusInProgress, StatusWaitingCustomer, StatusResolved, StatusClosed}

type Source string

const (
	SourceWebForm Source = "WEB_FORM"
	SourceEmail   Source = "EMAIL"
	SourceAPI     Source = "API"
	SourceChat    Source = "CHAT"
	SourcePhone   Source = "PHONE"
)

var Sources = []Source{SourceWebForm, SourceEmail, SourceAPI, SourceChat, SourcePhone}

type DeviceType string

const (
	DeviceDesktop DeviceType = "DESKTOP"
	DeviceMobile  DeviceType = "MOBILE"
	DeviceTablet  DeviceType = "TABLET"
)

var DeviceTypes = []DeviceType{DeviceDesktop, DeviceMobile, DeviceTablet}

// parseEnum upper-cases raw and matches it against the allowed members.
func parseEnum[T ~string](kind, raw string, allowed []T) (T, error) {
	upper := strings.ToUpper(raw)
	for _, v := range allowed {
		if string(v) == upper {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("invalid %s value %q", kind, raw)
}

func ParseCategory(raw string) (Category, error) {
	return parseEnum("category", raw, Categories)
}

func ParsePriority(raw string) (Priority, error) {
	return parseEnum("priority", raw, Priorities)
}

func ParseStatus(raw string) (Status, error) {
	return parseEnum("status", raw, Statuses)
}

func ParseSource(raw string) (Source, error) {
	return parseEnum("source", raw, Sources)
}

func ParseDeviceType(raw string) (DeviceType, error) {
	return parseEnum("deviceType", raw, DeviceTypes)
}

// UnmarshalText accepts any casing; empty text leaves the value unset.
func (c *Category) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = ""
		return nil
	}
	v, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (p *Priority) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*p = ""
		return nil
	}
	v, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (s *Status) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = ""
		return nil
	}
	v, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s *Source) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = ""
		return nil
	}
	v, err := ParseSource(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (d *DeviceType) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = ""
		return nil
	}
	v, err := ParseDeviceType(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
