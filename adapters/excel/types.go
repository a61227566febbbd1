package excel

// RawRecords is the string grid of an upload before numeric coercion
type RawRecords [][]string

// Width returns the widest record length
func (r RawRecords) Width() int {
	width := 0
	for _, rec := range r {
		if len(rec) > width {
			width = len(rec)
		}
	}
	return width
}
