package schema

// Aliases maps each canonical key to the surface-name variants seen in the
// wild. Entries are compared in stripped form (lowercase, no spaces, hyphens
// or underscores), so "First Name", "first_name" and "FIRST-NAME" all hit the
// same alias.
//
// Overlap across keys is intentional: "experience" appears under both
// FieldExperience and as a neighbour of FieldSkills vocabulary on real forms.
// CanonicalKeys order decides, not this table. Flagged for product review,
// kept as observed behaviour.
var Aliases = map[string][]string{
	FieldFirstName: {
		"first name", "firstname", "fname", "given name", "givenname",
		"forename", "first",
	},
	FieldLastName: {
		"last name", "lastname", "lname", "surname", "family name",
		"familyname", "last",
	},
	FieldEmail: {
		"email", "e-mail", "email address", "emailaddress", "mail",
		"contact email",
	},
	FieldPhone: {
		"phone", "phone number", "phonenumber", "mobile", "mobile number",
		"telephone", "tel", "cell", "contact number",
	},
	FieldAddress: {
		"address", "street address", "streetaddress", "address line 1",
		"addr", "street",
	},
	FieldCity: {
		"city", "town", "locality",
	},
	FieldCountry: {
		"country", "nation",
	},
	FieldZip: {
		"zip", "zip code", "zipcode", "postal code", "postalcode", "postcode",
	},
	FieldLinkedin: {
		"linkedin", "linkedin url", "linkedin profile",
	},
	FieldPortfolio: {
		"portfolio", "website", "personal website", "github", "github url",
		"site", "url", "homepage",
	},
	FieldSummary: {
		"summary", "about", "about me", "bio", "description", "cover letter",
		"coverletter", "objective", "profile summary",
	},
	FieldDegree: {
		"degree", "qualification", "education level", "educationlevel",
	},
	FieldUniversity: {
		"university", "college", "school", "institution", "alma mater",
	},
	FieldGraduationYear: {
		"graduation year", "graduationyear", "grad year", "year of graduation",
		"passing year",
	},
	FieldCompany: {
		"company", "employer", "organization", "organisation",
		"current company", "company name",
	},
	FieldPosition: {
		"position", "job title", "jobtitle", "title", "role", "designation",
		"current position",
	},
	FieldWorkStartDate: {
		"start date", "startdate", "work start date", "from date",
		"employment start",
	},
	FieldWorkEndDate: {
		"end date", "enddate", "work end date", "to date", "until",
		"employment end",
	},
	FieldExperience: {
		"experience", "years of experience", "yearsofexperience",
		"work experience", "total experience", "exp",
	},
	FieldSkills: {
		"skills", "skill set", "skillset", "technologies", "tech stack",
		"techstack", "competencies", "expertise",
	},
	FieldSalary: {
		"salary", "expected salary", "expectedsalary", "compensation",
		"desired salary", "ctc",
	},
	FieldBirthDate: {
		"birth date", "birthdate", "date of birth", "dateofbirth", "dob",
		"birthday",
	},
}
