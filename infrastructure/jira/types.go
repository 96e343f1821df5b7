package jira

import "encoding/json"

// Response is an API reply. Non-2xx statuses are reported here, not as errors.
type Response[T any] struct {
	Status     int
	StatusText string // Standard text of Status, "No Content" for 204
	Data       T
	Error      ErrorResponse // Filled for non-2xx statuses
}

// OK reports whether Status is 2xx
func (r Response[T]) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Issue is an issue as returned by the issue and search endpoints
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self,omitempty"`
	Fields IssueFields `json:"fields"`
}

// IssueFields are fields of a fetched issue.
// Description is a plain string in API v2 and a document in v3.
type IssueFields struct {
	Summary     string          `json:"summary"`
	Description json.RawMessage `json:"description,omitempty"`
	Project     ProjectRef      `json:"project"`
	IssueType   IssueTypeRef    `json:"issuetype"`
}

// ProjectRef references a project by key
type ProjectRef struct {
	Key string `json:"key"`
}

// IssueTypeRef references an issue type by name
type IssueTypeRef struct {
	Name string `json:"name"`
}

// CreateIssuePayload is the body of create and update requests
type CreateIssuePayload struct {
	Fields CreateFields `json:"fields"`
}

// CreateFields are fields set on create or update
type CreateFields struct {
	Project     ProjectRef   `json:"project"`
	Summary     string       `json:"summary"`
	Description Document     `json:"description"`
	IssueType   IssueTypeRef `json:"issuetype"`
}

// Document is an Atlassian document format node tree
type Document struct {
	Type    string `json:"type"`
	Version int    `json:"version"`
	Content []Node `json:"content"`
}

// Node is a document node, paragraphs hold text nodes
type Node struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Content []Node `json:"content,omitempty"`
}

// Paragraph - returns a single paragraph document with text
func Paragraph(text string) Document {
	return Document{
		Type:    "doc",
		Version: 1,
		Content: []Node{{Type: "paragraph", Content: []Node{{Type: "text", Text: text}}}},
	}
}

// SearchResponse is the result of a JQL search
type SearchResponse struct {
	Issues     []Issue `json:"issues"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	StartAt    int     `json:"startAt"`
}

// CreateIssueResponse identifies a created issue
type CreateIssueResponse struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// ErrorResponse is the error body of the API
type ErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages,omitempty"`
	Errors        map[string]string `json:"errors,omitempty"`
}

// Empty reports whether the API returned no error details
func (e ErrorResponse) Empty() bool {
	return len(e.ErrorMessages) == 0 && len(e.Errors) == 0
}
