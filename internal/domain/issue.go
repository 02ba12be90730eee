package domain

// Board is an external tracker board, passed through untouched.
type Board struct {
	ID   int    `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Sprint is an external tracker sprint.
type Sprint struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	State     string `json:"state"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// Issue is the work item under estimation. The core only interprets
// ID and Fields.Summary; everything else is carried for clients.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

type IssueFields struct {
	Summary     string     `json:"summary"`
	Description string     `json:"description,omitempty"`
	IssueType   *IssueType `json:"issuetype,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Assignee    *Assignee  `json:"assignee,omitempty"`
	StoryPoints *float64   `json:"storyPoints,omitempty"`
}

type IssueType struct {
	Name    string `json:"name"`
	IconURL string `json:"iconUrl,omitempty"`
}

type Status struct {
	Name string `json:"name"`
}

type Assignee struct {
	DisplayName string `json:"displayName"`
}
