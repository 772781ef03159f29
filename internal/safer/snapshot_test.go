package safer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// snapshotFixture mimics the registry's single-carrier layout: label cells
// with the value in the adjacent cell, id-anchored address blocks, and a
// cargo grid of marker/label cell pairs.
const snapshotFixture = `<html>
<head><title>SAFER Web - Company Snapshot</title></head>
<body>
<h2>Company Snapshot</h2>
<table>
<tr><th>Entity Type:</th><td>CARRIER</td></tr>
<tr><th>USDOT Status:</th><td>ACTIVE</td></tr>
<tr><th>Legal Name:</th><td>INTERCITY LINES INC</td></tr>
<tr><th>DBA Name:</th><td></td></tr>
<tr><th>USDOT Number:</th><td>223672</td></tr>
<tr><th>MC/MX/FF Number(s):</th><td>MC-107012</td></tr>
<tr><th>Power Units:</th><td><font>12</font></td></tr>
<tr><th>Drivers:</th><td>10</td></tr>
<tr><th>Phone</th><td>(413) 436-9422</td></tr>
<tr><th>Operating Authority Status:</th><td>AUTHORIZED FOR Property</td></tr>
</table>
<table>
<tr><td id="physicaladdressvalue">533 LOWER RD WARREN, MA 01083</td></tr>
<tr><td id="mailingaddressvalue">PO BOX 1299 WARREN, MA 01083</td></tr>
</table>
<table>
<tr><td>X</td><td><font>Motor Vehicles</font></td><td></td><td>Household Goods</td></tr>
</table>
<table>
<tr><th>Safety Rating:</th><td>Satisfactory</td><th>Rating Date:</th><td>03/28/2002</td></tr>
</table>
</body>
</html>`

func TestAssembleSnapshot(t *testing.T) {
	rec := AssembleSnapshot(mustParse(t, snapshotFixture))

	assert.Equal(t, "INTERCITY LINES INC", rec.LegalName)
	assert.Equal(t, "", rec.DBAName)
	assert.Equal(t, "223672", rec.USDOT)
	assert.Equal(t, "MC-107012", rec.MCNumber)
	assert.Equal(t, "CARRIER", rec.EntityType)
	assert.Equal(t, "CARRIER", rec.Status)
	assert.Equal(t, "12", rec.PowerUnits)
	assert.Equal(t, "10", rec.Drivers)
	assert.True(t, rec.AuthorizedForMotorVehicles)
	assert.Equal(t, "(413) 436-9422", rec.Phone)
	assert.Equal(t, "533 LOWER RD WARREN, MA 01083", rec.Address)
	assert.Equal(t, "PO BOX 1299 WARREN, MA 01083", rec.MailingAddress)
	assert.Equal(t, "Satisfactory", rec.SafetyRating)
	assert.Equal(t, "03/28/2002", rec.SafetyRatingDate)
	assert.Equal(t, "ACTIVE", rec.USDOTStatus)
	assert.Equal(t, "AUTHORIZED FOR Property", rec.OperatingAuthorityStatus)
}

func TestAssembleSnapshotEmptyPage(t *testing.T) {
	// Assembly is total: a snapshot-classified page with none of the
	// expected markup still yields a record.
	rec := AssembleSnapshot(mustParse(t, `<html><head><title>Company Snapshot</title></head><body></body></html>`))

	assert.Equal(t, "", rec.LegalName)
	assert.Equal(t, "", rec.Address)
	assert.Equal(t, "UNKNOWN", rec.Status)
	assert.False(t, rec.AuthorizedForMotorVehicles)
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		entityType string
		expected   string
	}{
		{"CARRIER", "CARRIER"},
		{"Authorized For Hire Carrier", "CARRIER"},
		{"BROKER", "BROKER"},
		{"CARRIER/BROKER", "BOTH"},
		{"broker & carrier", "BOTH"},
		{"SHIPPER", "SHIPPER"},
		{"Registrant", "REGISTRANT"},
		{"", "UNKNOWN"},
		{"   ", "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.entityType, func(t *testing.T) {
			assert.Equal(t, tt.expected, deriveStatus(tt.entityType))
		})
	}
}
