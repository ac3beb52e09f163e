package diagfmt

import (
	"fmt"
	"io"

	"a68/internal/modes"
)

// ModeJSON is one canonical entry of the mode table.
type ModeJSON struct {
	ID       uint32 `json:"id"`
	Kind     string `json:"kind"`
	Text     string `json:"text"`
	Deflexed uint32 `json:"deflexed,omitempty"`
	Slice    uint32 `json:"slice,omitempty"`
	Multiple uint32 `json:"multiple,omitempty"`
	NameForm uint32 `json:"name,omitempty"`
}

// BuildModes lists the canonical modes in creation order. Modes that only
// exist during checking (series, displays, the error mode) are left out.
func BuildModes(tb *modes.Table) []ModeJSON {
	if tb == nil {
		return nil
	}
	var out []ModeJSON
	for _, id := range tb.Representatives() {
		m := tb.Get(id)
		switch m.Kind {
		case modes.Series, modes.Stowed, modes.Error, modes.Vacuum, modes.Hip:
			continue
		case modes.Indicant:
			// связанные индиканты совпадают со своим определением
			if m.Equivalent.IsValid() {
				continue
			}
		}
		out = append(out, ModeJSON{
			ID:       uint32(id),
			Kind:     m.Kind.String(),
			Text:     tb.String(id),
			Deflexed: uint32(tb.Canon(m.Deflexed)),
			Slice:    uint32(tb.Canon(m.Slice)),
			Multiple: uint32(tb.Canon(m.Multiple)),
			NameForm: uint32(tb.Canon(m.NameForm)),
		})
	}
	return out
}

// FormatModesPretty prints one mode per line with its derived forms.
func FormatModesPretty(w io.Writer, tb *modes.Table) error {
	for _, m := range BuildModes(tb) {
		if _, err := fmt.Fprintf(w, "#%-5d %-9s %s", m.ID, m.Kind, m.Text); err != nil {
			return err
		}
		derived(w, "deflex", m.Deflexed, m.ID)
		derived(w, "slice", m.Slice, m.ID)
		derived(w, "multiple", m.Multiple, m.ID)
		derived(w, "name", m.NameForm, m.ID)
		fmt.Fprintln(w)
	}
	return nil
}

func derived(w io.Writer, what string, id, self uint32) {
	if id != 0 && id != self {
		fmt.Fprintf(w, "  %s=#%d", what, id)
	}
}

// FormatModesJSON writes the mode table as a JSON array.
func FormatModesJSON(w io.Writer, tb *modes.Table) error {
	out := BuildModes(tb)
	if out == nil {
		out = []ModeJSON{}
	}
	return encode(w, out)
}
