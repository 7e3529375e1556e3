package engine

import (
	"testing"
)

func TestParamsOptions(t *testing.T) {
	p := Params{
		IDCol1:           "CUSTOMER_ID",
		ZipCol1:          "POSTAL_CODE",
		NameCol1:         "CUSTOMER_DESC",
		AddressCol1:      "STREET_ADDRESS",
		AddressCol2:      "STREET_ADDRESS_LINE_1",
		LatCol1:          "LATITUDE_COORDINATE",
		LongCol1:         "LONGITUDE_COORDINATE",
		LatLongTolerance: 3,
		KeepAll:          true,
	}

	o := p.Options()
	if o.Target.Zip != "POSTAL_CODE" || o.Target.NameCol != "CUSTOMER_DESC" {
		t.Errorf("target columns did not fall back to reference names: %+v", o.Target)
	}
	if o.Target.Address != "STREET_ADDRESS_LINE_1" {
		t.Errorf("explicit target address = %q, want STREET_ADDRESS_LINE_1", o.Target.Address)
	}
	if o.Target.Lat != "LATITUDE_COORDINATE" || o.Target.Long != "LONGITUDE_COORDINATE" {
		t.Errorf("coordinate fallback: %+v", o.Target)
	}
	if o.NameThreshold != 0 || o.AddressThreshold != 0 {
		t.Errorf("thresholds = (%d, %d), want zero so stage defaults apply", o.NameThreshold, o.AddressThreshold)
	}

	p.Threshold = 90
	o = p.Options()
	if o.NameThreshold != 90 || o.AddressThreshold != 90 {
		t.Errorf("explicit threshold = (%d, %d), want (90, 90)", o.NameThreshold, o.AddressThreshold)
	}
}
