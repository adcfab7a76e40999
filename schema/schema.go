// Package schema defines the canonical profile every data source is
// normalized into: the fixed field set, the alias table mapping wild surface
// names onto canonical keys, and the normalizer itself.
//
// Forms in the wild never agree on field names. The alias table is ordered
// and deliberately allowed to overlap across keys; resolution is first-match
// against CanonicalKeys order, never a disjoint lookup.
package schema

// Canonical profile field keys.
const (
	FieldFirstName      = "firstName"
	FieldLastName       = "lastName"
	FieldEmail          = "email"
	FieldPhone          = "phone"
	FieldAddress        = "address"
	FieldCity           = "city"
	FieldCountry        = "country"
	FieldZip            = "zip"
	FieldLinkedin       = "linkedin"
	FieldPortfolio      = "portfolio"
	FieldSummary        = "summary"
	FieldDegree         = "degree"
	FieldUniversity     = "university"
	FieldGraduationYear = "graduationYear"
	FieldCompany        = "company"
	FieldPosition       = "position"
	FieldWorkStartDate  = "workStartDate"
	FieldWorkEndDate    = "workEndDate"
	FieldExperience     = "experience"
	FieldSkills         = "skills"
	FieldSalary         = "salary"
	FieldBirthDate      = "birthDate"
)

// CanonicalKeys lists every profile field in resolution order. Alias lookup
// walks this slice, so a surface name claimed by two fields resolves to the
// one listed first.
var CanonicalKeys = []string{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldAddress,
	FieldCity,
	FieldCountry,
	FieldZip,
	FieldLinkedin,
	FieldPortfolio,
	FieldSummary,
	FieldDegree,
	FieldUniversity,
	FieldGraduationYear,
	FieldCompany,
	FieldPosition,
	FieldWorkStartDate,
	FieldWorkEndDate,
	FieldExperience,
	FieldSkills,
	FieldSalary,
	FieldBirthDate,
}

// Fragment is a partial canonical profile produced by one source.
// Invariant: every value present is non-empty and trimmed; absent keys mean
// "unknown", never empty string.
type Fragment map[string]string

// Profile is a full canonical profile. Same invariant as Fragment; the
// distinction is intent: a Profile is the merged working record.
type Profile map[string]string

// Clone returns a copy of the profile.
func (p Profile) Clone() Profile {
	out := make(Profile, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Provenance identifies which data source supplied a profile value.
type Provenance string

const (
	SourceManual   Provenance = "manual"
	SourceDocument Provenance = "document"
	SourceBrowser  Provenance = "browser"
)
