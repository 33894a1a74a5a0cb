package constants

// Field identifies one of the five extracted applicant fields.
type Field string

const (
	FieldName          Field = "Name"
	FieldDateOfBirth   Field = "DateOfBirth"
	FieldQualification Field = "Qualification"
	FieldNationality   Field = "Nationality"
	FieldSex           Field = "Sex"
)

// AllFields lists the fields in export column order.
var AllFields = []Field{
	FieldName,
	FieldDateOfBirth,
	FieldQualification,
	FieldNationality,
	FieldSex,
}

// AsStringSlice returns the field identifiers as plain strings.
func AsStringSlice() []string {
	result := make([]string, len(AllFields))
	for i, f := range AllFields {
		result[i] = string(f)
	}
	return result
}
