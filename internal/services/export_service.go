package services

import (
	"fmt"
	"strconv"

	"github.com/terraincognita07/sprintdesk/internal/models"
)

const exportDateLayout = "2006-01-02"

var ExportCSVHeaders = []string{
	"ID",
	"Title",
	"Type",
	"Priority",
	"Status",
	"Assignee",
	"Creator",
	"Created",
}

type ExportIssueReader interface {
	ListBySprint(sprintID uint, assigneeID *uint) ([]models.Issue, error)
}

type ExportService struct {
	issues ExportIssueReader
	access *AccessResolver
}

type SprintExport struct {
	Sprint models.Sprint
	Rows   [][]string
}

func NewExportService(issues ExportIssueReader, access *AccessResolver) *ExportService {
	return &ExportService{
		issues: issues,
		access: access,
	}
}

// BuildSprintCSVRows returns one row per issue in ExportCSVHeaders order.
func (service *ExportService) BuildSprintCSVRows(userID uint, sprintID uint) (SprintExport, error) {
	access, err := service.access.RequireSprintAccess(userID, sprintID)
	if err != nil {
		return SprintExport{}, err
	}

	issues, err := service.issues.ListBySprint(sprintID, nil)
	if err != nil {
		return SprintExport{}, fmt.Errorf("list issues for export: %w", err)
	}

	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(issue.ID), 10),
			issue.Title,
			issue.Type,
			issue.Priority,
			models.IssueStatusLabel(issue.Status),
			exportUserName(issue.Assignee),
			exportUserName(issue.Creator),
			issue.CreatedAt.UTC().Format(exportDateLayout),
		})
	}
	return SprintExport{Sprint: access.Sprint, Rows: rows}, nil
}

func exportUserName(user *models.User) string {
	if user == nil {
		return ""
	}
	return user.Name
}
