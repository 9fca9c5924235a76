package corpus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<FILE>
  <RECORD>
    <RECORDNUM> 00001 </RECORDNUM>
    <ABSTRACT>Salt loss; in sweat, (cystic) fibrosis.</ABSTRACT>
  </RECORD>
  <RECORD>
    <RECORDNUM>00002</RECORDNUM>
    <EXTRACT>Fallback extract text.</EXTRACT>
  </RECORD>
  <RECORD>
    <RECORDNUM>00003</RECORDNUM>
    <TITLE>No abstract here</TITLE>
  </RECORD>
</FILE>`

func TestParse(t *testing.T) {
	res, err := Parse(strings.NewReader(sampleXML))
	require.NoError(t, err)

	require.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.Skipped, "record without abstract or extract is skipped")

	assert.Equal(t, "SALT LOSS IN SWEAT CYSTIC FIBROSIS", res.Records[1],
		"abstract text is folded")
	assert.Equal(t, "FALLBACK EXTRACT TEXT", res.Records[2],
		"extract is the fallback field")
}

func TestParsePrefersAbstractOverExtract(t *testing.T) {
	xml := `<FILE><RECORD>
	  <RECORDNUM>7</RECORDNUM>
	  <ABSTRACT>primary</ABSTRACT>
	  <EXTRACT>secondary</EXTRACT>
	</RECORD></FILE>`
	res, err := Parse(strings.NewReader(xml))
	require.NoError(t, err)
	assert.Equal(t, "PRIMARY", res.Records[7])
}

func TestParseBadRecordNum(t *testing.T) {
	xml := `<FILE><RECORD><RECORDNUM>x1</RECORDNUM><ABSTRACT>a</ABSTRACT></RECORD></FILE>`
	_, err := Parse(strings.NewReader(xml))
	assert.Error(t, err)
}

func TestParseEmptyStream(t *testing.T) {
	res, err := Parse(strings.NewReader(`<FILE></FILE>`))
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Zero(t, res.Skipped)
}
