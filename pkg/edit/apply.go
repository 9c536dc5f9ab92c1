package edit

import "strings"

// Apply prepares edits against text and returns the edited text.
func Apply(text string, edits []TextEdit) (string, error) {
	prepared, err := Prepare(edits, len(text))
	if err != nil {
		return "", err
	}
	if len(prepared) == 0 {
		return text, nil
	}

	delta := 0
	for _, e := range prepared {
		delta += len(e.NewText) - (e.End - e.Start)
	}

	var out strings.Builder
	out.Grow(max(len(text)+delta, 0))

	cursor := 0
	for _, e := range prepared {
		out.WriteString(text[cursor:e.Start])
		out.WriteString(e.NewText)
		cursor = e.End
	}
	out.WriteString(text[cursor:])

	return out.String(), nil
}
