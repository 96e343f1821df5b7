package jira

import (
	"fmt"
	"math/rand"
)

// SampleIssue - returns a task with random summary and description in project
func SampleIssue(project string) CreateIssuePayload {
	return CreateIssuePayload{
		Fields: CreateFields{
			Project:     ProjectRef{Key: project},
			Summary:     fmt.Sprintf("Random Issue %d", rand.Intn(10000)),
			Description: Paragraph(fmt.Sprintf("Random Description %d", rand.Intn(10000))),
			IssueType:   IssueTypeRef{Name: "Task"},
		},
	}
}
