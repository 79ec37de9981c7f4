package triangle

import "fmt"

// Label is the closed set of outcomes of a classification.
type Label uint8

const (
	InvalidArgs Label = iota
	NotATriangle
	Equilateral
	Isosceles
	Scalene
)

var labelText = [...]string{
	InvalidArgs:  "The arguments were not valid",
	NotATriangle: "Not a valid triangle",
	Equilateral:  "Equilateral",
	Isosceles:    "Isosceles",
	Scalene:      "Scalene",
}

var labelKey = [...]string{
	InvalidArgs:  "invalid_args",
	NotATriangle: "not_a_triangle",
	Equilateral:  "equilateral",
	Isosceles:    "isosceles",
	Scalene:      "scalene",
}

// Labels returns every label in declaration order.
func Labels() []Label {
	return []Label{InvalidArgs, NotATriangle, Equilateral, Isosceles, Scalene}
}

// String returns the display string for the label.
func (l Label) String() string {
	if int(l) < len(labelText) {
		return labelText[l]
	}
	return fmt.Sprintf("Label(%d)", uint8(l))
}

// Key returns a short snake_case identifier, suitable for metric labels.
func (l Label) Key() string {
	if int(l) < len(labelKey) {
		return labelKey[l]
	}
	return "unknown"
}

// Valid reports whether l is one of the defined labels.
func (l Label) Valid() bool {
	return int(l) < len(labelText)
}

// MarshalText encodes the label as its display string.
func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("triangle: unknown label %d", uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText decodes a display string back into a label.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLabel maps a display string to its label.
func ParseLabel(s string) (Label, error) {
	for i, text := range labelText {
		if text == s {
			return Label(i), nil
		}
	}
	return InvalidArgs, fmt.Errorf("triangle: unknown label %q", s)
}
