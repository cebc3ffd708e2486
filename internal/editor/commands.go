package editor

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingIndex is returned when a decoded command omits an index its
// type requires.
var ErrMissingIndex = errors.New("missing index")

// Command types accepted by Apply.
const (
	CmdSetTitle      = "set_title"
	CmdSetPDF        = "set_pdf"
	CmdAddSection    = "add_section"
	CmdDeleteSection = "delete_section"
	CmdUpdateField   = "update_field"
	CmdAddKeyword    = "add_keyword"
	CmdUpdateKeyword = "update_keyword"
	CmdDeleteKeyword = "delete_keyword"
)

// Command is a discrete edit as sent by the editor page.
type Command struct {
	Type         string `json:"type"`
	Index        int    `json:"index"`
	KeywordIndex int    `json:"keyword_index"`
	Field        string `json:"field,omitempty"`
	Value        string `json:"value,omitempty"`
	Page         int    `json:"page,omitempty"`
}

// UnmarshalJSON decodes a command and rejects commands that address a
// section or keyword row without naming its index.
func (c *Command) UnmarshalJSON(data []byte) error {
	var wire struct {
		Type         string `json:"type"`
		Index        *int   `json:"index"`
		KeywordIndex *int   `json:"keyword_index"`
		Field        string `json:"field"`
		Value        string `json:"value"`
		Page         int    `json:"page"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*c = Command{Type: wire.Type, Field: wire.Field, Value: wire.Value, Page: wire.Page}

	needIndex, needKeyword := requiredIndexes(c.Type)
	if wire.Index != nil {
		c.Index = *wire.Index
	} else if needIndex {
		return fmt.Errorf("%w: %s requires index", ErrMissingIndex, c.Type)
	}
	if wire.KeywordIndex != nil {
		c.KeywordIndex = *wire.KeywordIndex
	} else if needKeyword {
		return fmt.Errorf("%w: %s requires keyword_index", ErrMissingIndex, c.Type)
	}
	return nil
}

func requiredIndexes(typ string) (index, keyword bool) {
	switch typ {
	case CmdDeleteSection, CmdUpdateField, CmdAddKeyword:
		return true, false
	case CmdUpdateKeyword, CmdDeleteKeyword:
		return true, true
	}
	return false, false
}

// Apply executes cmd against s.
func (s *State) Apply(cmd Command) error {
	switch cmd.Type {
	case CmdSetTitle:
		s.SetTitle(cmd.Value)
	case CmdSetPDF:
		s.SetPDF(cmd.Value)
	case CmdAddSection:
		s.AddSection()
	case CmdDeleteSection:
		return s.DeleteSection(cmd.Index)
	case CmdUpdateField:
		return s.UpdateField(cmd.Index, cmd.Field, cmd.Value)
	case CmdAddKeyword:
		_, err := s.AddKeyword(cmd.Index, cmd.Value, cmd.Page)
		return err
	case CmdUpdateKeyword:
		return s.UpdateKeyword(cmd.Index, cmd.KeywordIndex, cmd.Value, cmd.Page)
	case CmdDeleteKeyword:
		return s.DeleteKeyword(cmd.Index, cmd.KeywordIndex)
	default:
		return fmt.Errorf("%w %q", ErrUnknownCommand, cmd.Type)
	}
	return nil
}
