package dataset

import (
	"fmt"
)

// Schema maps the logical roles the matching engine needs onto the concrete
// column names of one dataset. ID is only required on the reference side.
// Address and the Lat/Long pair are optional, but partial configuration of a
// pair is rejected: the engine either runs a stage or skips it entirely.
type Schema struct {
	ID      string
	Zip     string
	NameCol string
	Address string
	Lat     string
	Long    string
}

// HasAddress reports whether an address column is configured.
func (s Schema) HasAddress() bool { return s.Address != "" }

// HasCoordinates reports whether both coordinate columns are configured.
func (s Schema) HasCoordinates() bool { return s.Lat != "" && s.Long != "" }

// Validate checks the schema against the dataset it describes, failing fast
// before any normalization or matching touches the data. requireID is set for
// the reference dataset, which must carry the unique identifier column.
func (s Schema) Validate(d *Dataset, requireID bool) error {
	if requireID {
		if s.ID == "" {
			return fmt.Errorf("dataset %s: identifier column not configured", d.Name)
		}
		if !d.HasColumn(s.ID) {
			return fmt.Errorf("dataset %s: identifier column %q not found", d.Name, s.ID)
		}
	}

	if s.Zip == "" {
		return fmt.Errorf("dataset %s: postal code column not configured", d.Name)
	}
	if !d.HasColumn(s.Zip) {
		return fmt.Errorf("dataset %s: postal code column %q not found", d.Name, s.Zip)
	}

	if s.NameCol == "" {
		return fmt.Errorf("dataset %s: name column not configured", d.Name)
	}
	if !d.HasColumn(s.NameCol) {
		return fmt.Errorf("dataset %s: name column %q not found", d.Name, s.NameCol)
	}

	if s.HasAddress() && !d.HasColumn(s.Address) {
		return fmt.Errorf("dataset %s: address column %q not found", d.Name, s.Address)
	}

	if (s.Lat != "") != (s.Long != "") {
		return fmt.Errorf("dataset %s: latitude and longitude columns must be configured together", d.Name)
	}
	if s.HasCoordinates() {
		if !d.HasColumn(s.Lat) {
			return fmt.Errorf("dataset %s: latitude column %q not found", d.Name, s.Lat)
		}
		if !d.HasColumn(s.Long) {
			return fmt.Errorf("dataset %s: longitude column %q not found", d.Name, s.Long)
		}
	}

	return nil
}
