package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecowas-hr/application-processor/constants"
)

func fixedParser() *Parser {
	p := New(nil)
	p.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	return p
}

func TestParse_CompleteForm(t *testing.T) {
	text := "Full Name: John Doe\nDate of Birth: 15/03/1990\nSex: Male\nNationality: Nigerian\nHighest Qualification: BSc in Computer Science"

	res := fixedParser().Parse(text)

	require.Equal(t, constants.StatusSuccess, res.Status)
	assert.Equal(t, "John Doe", res.Fields[constants.FieldName].Value)
	assert.Equal(t, "1990-03-15", res.Fields[constants.FieldDateOfBirth].Value)
	assert.Equal(t, "Male", res.Fields[constants.FieldSex].Value)
	assert.Equal(t, "Nigerian", res.Fields[constants.FieldNationality].Value)
	assert.Equal(t, "BSc in Computer Science", res.Fields[constants.FieldQualification].Value)
	for f, fv := range res.Fields {
		assert.Greater(t, fv.Confidence, 0.0, "field %s", f)
		assert.LessOrEqual(t, fv.Confidence, 1.0, "field %s", f)
	}
	assert.Equal(t, 36, res.Age)
}

func TestParse_OverallIsMeanOfFoundFieldsOnly(t *testing.T) {
	res := fixedParser().Parse("Full Name: Jane Doe\nSex: F")

	require.Equal(t, constants.StatusSuccess, res.Status)
	require.Len(t, res.Fields, 2)

	want := (res.Fields[constants.FieldName].Confidence + res.Fields[constants.FieldSex].Confidence) / 2
	assert.InDelta(t, want, res.Overall, 1e-9)
	assert.GreaterOrEqual(t, res.Overall, 0.0)
	assert.LessOrEqual(t, res.Overall, 1.0)
}

func TestParse_NoFieldsMeansFailed(t *testing.T) {
	res := fixedParser().Parse("lorem ipsum dolor sit amet\nnothing to see here")

	assert.Equal(t, constants.StatusFailed, res.Status)
	assert.Empty(t, res.Fields)
	assert.Zero(t, res.Overall)
}

func TestParse_ValueOnFollowingLine(t *testing.T) {
	res := fixedParser().Parse("Date of Birth:\n\n15/03/1990")

	fv, ok := res.Fields[constants.FieldDateOfBirth]
	require.True(t, ok)
	assert.Equal(t, "1990-03-15", fv.Value)
	assert.InDelta(t, confCanonical*nextLineFactor, fv.Confidence, 1e-9)
}

func TestParse_LooseLabelScoresBelowCanonical(t *testing.T) {
	canonical := fixedParser().Parse("Sex: Male")
	loose := fixedParser().Parse("Sex   Male")

	c, ok := canonical.Fields[constants.FieldSex]
	require.True(t, ok)
	l, ok := loose.Fields[constants.FieldSex]
	require.True(t, ok)
	assert.Greater(t, c.Confidence, l.Confidence)
}

func TestParse_DateVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"numeric slash", "15/03/1990", "1990-03-15"},
		{"numeric dash", "15-03-1990", "1990-03-15"},
		{"numeric dot", "15.03.1990", "1990-03-15"},
		{"textual", "15 March 1990", "1990-03-15"},
		{"textual lowercase", "15 march 1990", "1990-03-15"},
		{"textual abbreviated", "15 Mar 1990", "1990-03-15"},
		{"ordinal loose month", "20th Sept 1990", "1990-09-20"},
		{"already iso", "1990-03-15", "1990-03-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := fixedParser().Parse("Date of Birth: " + tt.raw)
			fv, ok := res.Fields[constants.FieldDateOfBirth]
			require.True(t, ok)
			assert.Equal(t, tt.want, fv.Value)
		})
	}
}

func TestParse_DateRoundTrips(t *testing.T) {
	res := fixedParser().Parse("Date of Birth: 20th Sept 1990")
	fv := res.Fields[constants.FieldDateOfBirth]

	again, ok := ParseDate(fv.Value)
	require.True(t, ok)
	assert.Equal(t, fv.Value, again.Format("2006-01-02"))
}

func TestParse_DateOutOfSaneRangeKeptAtReducedConfidence(t *testing.T) {
	res := fixedParser().Parse("Date of Birth: 15/03/1890")

	fv, ok := res.Fields[constants.FieldDateOfBirth]
	require.True(t, ok)
	assert.Equal(t, "1890-03-15", fv.Value)
	assert.InDelta(t, confCanonical*dateRangeFactor, fv.Confidence, 1e-9)
}

func TestParse_UnparseableDateKeptVerbatim(t *testing.T) {
	res := fixedParser().Parse("Date of Birth: sometime around March")

	fv, ok := res.Fields[constants.FieldDateOfBirth]
	require.True(t, ok)
	assert.Equal(t, "sometime around March", fv.Value)
	assert.InDelta(t, confCanonical*unparsedDateFactor, fv.Confidence, 1e-9)
}

func TestParse_NameRejections(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"purely numeric", "Full Name: 12345"},
		{"too short", "Full Name: X"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := fixedParser().Parse(tt.text)
			_, ok := res.Fields[constants.FieldName]
			assert.False(t, ok)
		})
	}
}

func TestParse_NameWhitespaceCollapsed(t *testing.T) {
	res := fixedParser().Parse("Full Name:   John    Ade   Doe  ")
	assert.Equal(t, "John Ade Doe", res.Fields[constants.FieldName].Value)
}

func TestParse_SexMappings(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"M", "Male"}, {"F", "Female"},
		{"male", "Male"}, {"FEMALE", "Female"},
	}
	for _, tt := range tests {
		res := fixedParser().Parse("Sex: " + tt.raw)
		fv, ok := res.Fields[constants.FieldSex]
		require.True(t, ok, "raw %q", tt.raw)
		assert.Equal(t, tt.want, fv.Value)
	}
}

func TestParse_SexRejectsOpenValues(t *testing.T) {
	res := fixedParser().Parse("Sex: Unknown")
	_, ok := res.Fields[constants.FieldSex]
	assert.False(t, ok)
}

func TestParse_NationalityUnknownAcceptedWithoutBoost(t *testing.T) {
	known := fixedParser().Parse("Nationality: Ghanaian")
	unknown := fixedParser().Parse("Nationality: Atlantean")

	k := known.Fields[constants.FieldNationality]
	u := unknown.Fields[constants.FieldNationality]
	assert.Equal(t, "Atlantean", u.Value)
	assert.Greater(t, k.Confidence, u.Confidence)
}

func TestParse_MultilineQualificationsFallback(t *testing.T) {
	text := "Name: Ada Obi\nEducation History\nMSc Economics (2019)\nBSc Accounting - 2015\nMSc Economics (2019)"

	res := fixedParser().Parse(text)
	fv, ok := res.Fields[constants.FieldQualification]
	require.True(t, ok)

	// Deduplicated, newest first.
	assert.Equal(t, "MSc Economics - 2019; BSc Accounting - 2015", fv.Value)
	assert.InDelta(t, confQualMultiline, fv.Confidence, 1e-9)
}

func TestParse_ExperienceExtras(t *testing.T) {
	res := fixedParser().Parse("Name: Ada Obi\nWork Start: 2010")

	assert.Equal(t, 2010, res.ExpStartYear)
	assert.Equal(t, 16, res.ExperienceYears)
}
