package schema

// Builtin returns the registry of every content section the console manages.
// The set matches the sections of the institute site: news, events, academic
// departments, alumni testimonials, collaborations (MoUs), contacts, incubation
// centre records, staff users and the read-only activity log.
func Builtin() *Registry {
	r, err := NewRegistry(
		newsSchema,
		eventSchema,
		departmentSchema,
		testimonialSchema,
		mouSchema,
		contactSchema,
		incubateeSchema,
		userSchema,
		activitySchema,
	)
	if err != nil {
		// Builtin schemas are static data; a conflict is a programming error.
		panic(err)
	}
	return r
}

var newsSchema = Schema{
	Section: "news",
	Title:   "News",
	Fields: []FieldSpec{
		{Name: "title", Label: "Title", Kind: KindText, Required: true, MaxLength: 200},
		{Name: "summary", Label: "Summary", Kind: KindLongText, MaxLength: 500, Sanitize: true},
		{Name: "content", Label: "Content", Kind: KindLongText, Required: true, Sanitize: true},
		{Name: "publishDate", Label: "Publish date", Kind: KindText},
		{Name: "coverImage", Label: "Cover image", Kind: KindFileRef, Category: "news", Accept: AcceptImage},
	},
}

var eventSchema = Schema{
	Section: "event",
	Title:   "Events",
	Fields: []FieldSpec{
		{Name: "title", Label: "Title", Kind: KindText, Required: true, MaxLength: 200},
		{Name: "venue", Label: "Venue", Kind: KindText, MaxLength: 200},
		{Name: "startDate", Label: "Start date", Kind: KindText, Required: true},
		{Name: "endDate", Label: "End date", Kind: KindText},
		{Name: "description", Label: "Description", Kind: KindLongText, Sanitize: true},
		{Name: "banner", Label: "Banner", Kind: KindFileRef, Category: "events", Accept: AcceptImage},
		{Name: "highlights", Label: "Highlights", Kind: KindArrayOfObject, Elem: []FieldSpec{
			{Name: "title", Label: "Title", Kind: KindText, Required: true, MaxLength: 100},
			{Name: "description", Label: "Description", Kind: KindLongText},
		}},
	},
}

var departmentSchema = Schema{
	Section: "department",
	Title:   "Departments",
	Fields: []FieldSpec{
		{Name: "name", Label: "Name", Kind: KindText, Required: true, MaxLength: 150},
		{Name: "code", Label: "Code", Kind: KindText, MaxLength: 20},
		{Name: "overview", Label: "Overview", Kind: KindLongText, Sanitize: true},
		{Name: "headName", Label: "Head of department", Kind: KindText, MaxLength: 100},
		{Name: "brochure", Label: "Brochure", Kind: KindFileRef, Category: "departments", Accept: AcceptDocument},
		{Name: "programs", Label: "Programs", Kind: KindArrayOfObject, Required: true, Elem: []FieldSpec{
			{Name: "name", Label: "Name", Kind: KindText, Required: true, MaxLength: 150},
			{Name: "duration", Label: "Duration", Kind: KindText, MaxLength: 50},
		}},
	},
}

var testimonialSchema = Schema{
	Section: "testimonial",
	Title:   "Alumni Testimonials",
	Fields: []FieldSpec{
		{Name: "authorName", Label: "Author", Kind: KindText, Required: true, MaxLength: 100},
		{Name: "batch", Label: "Batch", Kind: KindText, MaxLength: 20},
		{Name: "designation", Label: "Designation", Kind: KindText, MaxLength: 150},
		{Name: "quote", Label: "Quote", Kind: KindLongText, Required: true, MaxLength: 1000, Sanitize: true},
		{Name: "rating", Label: "Rating", Kind: KindNumber, Min: floatPtr(1), Max: floatPtr(5)},
		{Name: "photo", Label: "Photo", Kind: KindFileRef, Category: "testimonials", Accept: AcceptImage},
	},
}

var mouSchema = Schema{
	Section: "mou",
	Title:   "Collaborations",
	Fields: []FieldSpec{
		{Name: "organization", Label: "Organization", Kind: KindText, Required: true, MaxLength: 200},
		{Name: "type", Label: "Type", Kind: KindEnumSelect, Required: true, Options: []string{"Govt", "Industry", "Academia"}},
		{Name: "category", Label: "Category", Kind: KindText, MaxLength: 100},
		{Name: "title", Label: "Title", Kind: KindText, Required: true, MaxLength: 200},
		{Name: "description", Label: "Description", Kind: KindLongText, Sanitize: true},
		{Name: "objectives", Label: "Objectives", Kind: KindLongText, SplitLines: true},
		{Name: "partners", Label: "Partners", Kind: KindArrayOfObject, Elem: []FieldSpec{
			{Name: "name", Label: "Name", Kind: KindText, Required: true, MaxLength: 150},
			{Name: "description", Label: "Description", Kind: KindLongText, MaxLength: 500},
		}},
		{Name: "logo", Label: "Logo", Kind: KindFileRef, Category: "collaborations", Accept: AcceptImage},
	},
}

var contactSchema = Schema{
	Section: "contact",
	Title:   "Contacts",
	Fields: []FieldSpec{
		{Name: "name", Label: "Name", Kind: KindText, Required: true, MaxLength: 100},
		{Name: "role", Label: "Role", Kind: KindEnumSelect, Options: []string{"Office", "Faculty", "Administration"}},
		{Name: "email", Label: "Email", Kind: KindText, Required: true, MaxLength: 150},
		{Name: "phone", Label: "Phone", Kind: KindText, MaxLength: 20},
		{Name: "address", Label: "Address", Kind: KindLongText, MaxLength: 500},
	},
}

var incubateeSchema = Schema{
	Section: "incubatee",
	Title:   "Incubation Centre",
	Fields: []FieldSpec{
		{Name: "startupName", Label: "Startup", Kind: KindText, Required: true, MaxLength: 150},
		{Name: "founder", Label: "Founder", Kind: KindText, MaxLength: 100},
		{Name: "stage", Label: "Stage", Kind: KindEnumSelect, Required: true, Options: []string{"Ideation", "Incubation", "Graduated"}},
		{Name: "website", Label: "Website", Kind: KindText, MaxLength: 200},
		{Name: "description", Label: "Description", Kind: KindLongText, Sanitize: true},
		{Name: "mentors", Label: "Mentors", Kind: KindArrayOfObject, Elem: []FieldSpec{
			{Name: "name", Label: "Name", Kind: KindText, Required: true, MaxLength: 100},
			{Name: "expertise", Label: "Expertise", Kind: KindText, MaxLength: 150},
		}},
		{Name: "logo", Label: "Logo", Kind: KindFileRef, Category: "incubation", Accept: AcceptImage},
	},
}

var userSchema = Schema{
	Section: "user",
	Title:   "Users",
	Fields: []FieldSpec{
		{Name: "username", Label: "Username", Kind: KindText, Required: true, MaxLength: 50},
		{Name: "fullName", Label: "Full name", Kind: KindText, MaxLength: 100},
		{Name: "email", Label: "Email", Kind: KindText, Required: true, MaxLength: 150},
		{Name: "role", Label: "Role", Kind: KindEnumSelect, Required: true, Options: []string{"admin", "editor", "viewer"}},
		{Name: "active", Label: "Active", Kind: KindBoolean, Default: true},
	},
}

var activitySchema = Schema{
	Section:  "activity",
	Title:    "Activity Log",
	ReadOnly: true,
	Fields: []FieldSpec{
		{Name: "actor", Label: "Actor", Kind: KindText},
		{Name: "action", Label: "Action", Kind: KindText},
		{Name: "detail", Label: "Detail", Kind: KindLongText},
		{Name: "loggedAt", Label: "Logged at", Kind: KindText},
	},
}
