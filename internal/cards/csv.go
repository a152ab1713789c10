package cards

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCatalogCSV reads card metadata rows of name, type line and color
// identity. A first row naming the columns is skipped. Rows without a name
// are ignored; missing trailing columns are empty.
func ReadCatalogCSV(r io.Reader) ([]Info, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read card metadata: %w", err)
	}

	var infos []Info
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		name := strings.TrimSpace(record[0])
		if name == "" || (i == 0 && strings.EqualFold(name, "name")) {
			continue
		}
		info := Info{Name: name}
		if len(record) > 1 {
			info.TypeLine = strings.TrimSpace(record[1])
		}
		if len(record) > 2 {
			colors := strings.TrimSpace(record[2])
			if colors != "" && !IsColorCode(colors) {
				return nil, fmt.Errorf("row %d: invalid color identity %q for %s", i+1, colors, name)
			}
			info.ColorIdentity = CanonicalColors(colors)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
