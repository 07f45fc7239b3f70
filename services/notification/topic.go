package notification

import (
	"fmt"
	"strings"
	"time"

	"courtbook/utils"
)

type Scope string

const (
	ScopeCourt    Scope = "court"
	ScopeFacility Scope = "facility"
)

// Topic names the slots of one court or facility on one date.
type Topic struct {
	Scope Scope
	ID    string
	Date  string
}

func CourtTopic(courtID, date string) Topic {
	return Topic{Scope: ScopeCourt, ID: courtID, Date: date}
}

func FacilityTopic(facilityID, date string) Topic {
	return Topic{Scope: ScopeFacility, ID: facilityID, Date: date}
}

// String renders the topic as "scope:id:date".
func (t Topic) String() string {
	return string(t.Scope) + ":" + t.ID + ":" + t.Date
}

func ParseTopic(s string) (Topic, error) {
	first := strings.Index(s, ":")
	last := strings.LastIndex(s, ":")
	if first <= 0 || last <= first+1 || last == len(s)-1 {
		return Topic{}, fmt.Errorf("malformed topic %q", s)
	}
	t := Topic{Scope: Scope(s[:first]), ID: s[first+1 : last], Date: s[last+1:]}
	return t, t.Validate()
}

func (t Topic) Validate() error {
	if t.Scope != ScopeCourt && t.Scope != ScopeFacility {
		return fmt.Errorf("unknown topic scope %q", t.Scope)
	}
	if t.ID == "" {
		return fmt.Errorf("topic id is required")
	}
	if _, err := time.Parse(utils.DateLayout, t.Date); err != nil {
		return fmt.Errorf("invalid topic date %q", t.Date)
	}
	return nil
}
