package scholarone

// Endpoint describes one manuscript API operation
type Endpoint struct {
	// Name is the public operation name, eg getSubmissionInfoFull
	Name string

	// Path is the URL path under the API base
	Path string

	// RequiresDate marks date-window endpoints that take from_time/to_time
	RequiresDate bool

	// IDParam is the query parameter carrying identifiers, empty for
	// date-window endpoints. Person email search uses primary_email
	IDParam string

	// BatchSize caps identifiers per request. Email search accepts a
	// single address per call, everything else takes 25
	BatchSize int
}

// DefaultBatchSize is the identifier cap per request for ID endpoints
const DefaultBatchSize = 25

// Endpoints is the operation catalog in presentation order
var Endpoints = []Endpoint{
	{Name: "getSubmissionInfoFull", Path: "/api/s1m/v9/submissions/full/metadata/submissionids", IDParam: "ids", BatchSize: DefaultBatchSize},
	{Name: "getDocumentInfoFull", Path: "/api/s1m/v9/submissions/full/metadata/documentids", IDParam: "ids", BatchSize: DefaultBatchSize},
	{Name: "getPersonInfoFullID", Path: "/api/s1m/v7/person/full/personids/search", IDParam: "ids", BatchSize: DefaultBatchSize},
	{Name: "getPersonInfoFullEmail", Path: "/api/s1m/v7/person/full/email/search", IDParam: "primary_email", BatchSize: 1},
	{Name: "getAuthorInfoFull", Path: "/api/s1m/v3/submissions/full/contributors/authors/submissionids", IDParam: "ids", BatchSize: DefaultBatchSize},
	{Name: "getEditorAssignmentsByDate", Path: "/api/s1m/v1/submissions/full/editorAssignmentsByDate", RequiresDate: true},
	{Name: "getIDsByDate", Path: "/api/s1m/v4/submissions/full/idsByDate", RequiresDate: true},
	{Name: "getSubmissionMetadataInfo", Path: "/api/s1m/v3/submissions/full/metadatainfo/submissionids", IDParam: "ids", BatchSize: DefaultBatchSize},
	{Name: "getDocumentMetadataInfo", Path: "/api/s1m/v3/submissions/full/metadatainfo/documentids", IDParam: "ids", BatchSize: DefaultBatchSize},
	{Name: "getSubmissionReviewerInfoFull", Path: "/api/s1m/v2/submissions/full/reviewer/submissionids", IDParam: "ids", BatchSize: DefaultBatchSize},
	{Name: "getDocumentReviewerInfoFull", Path: "/api/s1m/v2/submissions/full/reviewer/documentids", IDParam: "ids", BatchSize: DefaultBatchSize},
	{Name: "getSubmissionVersions", Path: "/api/s1m/v2/submissions/full/revisions/submissionids", IDParam: "ids", BatchSize: DefaultBatchSize},
	{Name: "getDocumentVersions", Path: "/api/s1m/v2/submissions/full/revisions/documentids", IDParam: "ids", BatchSize: DefaultBatchSize},
}

// Lookup finds an endpoint by name
func Lookup(name string) (Endpoint, bool) {
	for _, e := range Endpoints {
		if e.Name == name {
			return e, true
		}
	}
	return Endpoint{}, false
}

// Names lists catalog operation names in order
func Names() []string {
	out := make([]string, len(Endpoints))
	for i, e := range Endpoints {
		out[i] = e.Name
	}
	return out
}
