package services

import (
	"fmt"
	"math"
	"time"

	"github.com/terraincognita07/sprintdesk/internal/models"
)

const (
	statsRecentActivityDays = 7
	statsWeeklyWindow       = 4
	hoursPerDay             = 24 * time.Hour
)

type StatsSprintRepository interface {
	ListByProject(projectID uint) ([]models.Sprint, error)
}

type StatsMemberRepository interface {
	ListUserIDs(projectID uint) ([]uint, error)
}

type StatsService struct {
	sprints StatsSprintRepository
	members StatsMemberRepository
	access  *AccessResolver
}

type StatsOverview struct {
	TotalIssues     int `json:"total_issues"`
	CompletedIssues int `json:"completed_issues"`
	InProgress      int `json:"in_progress"`
	TotalMembers    int `json:"total_members"`
	TotalSprints    int `json:"total_sprints"`
	ActiveSprints   int `json:"active_sprints"`
	RecentActivity  int `json:"recent_activity"`
}

type StatusCount struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

type SprintProgress struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	TotalIssues     int    `json:"total_issues"`
	CompletedIssues int    `json:"completed_issues"`
	CompletionRate  int    `json:"completion_rate"`
}

type WeeklyProgress struct {
	Week      string `json:"week"`
	Completed int    `json:"completed"`
}

type BurndownPoint struct {
	Day       int `json:"day"`
	Remaining int `json:"remaining"`
	Ideal     int `json:"ideal"`
}

type ProjectHealth struct {
	UnassignedIssues int `json:"unassigned_issues"`
	CompletionRate   int `json:"completion_rate"`
}

type ProjectStats struct {
	Overview         StatsOverview    `json:"overview"`
	IssuesByStatus   []StatusCount    `json:"issues_by_status"`
	IssuesByPriority []PriorityCount  `json:"issues_by_priority"`
	Sprints          []SprintProgress `json:"sprints"`
	WeeklyProgress   []WeeklyProgress `json:"weekly_progress"`
	Burndown         []BurndownPoint  `json:"burndown"`
	Health           ProjectHealth    `json:"health"`
}

func NewStatsService(sprints StatsSprintRepository, members StatsMemberRepository, access *AccessResolver) *StatsService {
	return &StatsService{
		sprints: sprints,
		members: members,
		access:  access,
	}
}

func (service *StatsService) ProjectStats(userID uint, projectID uint, now time.Time) (ProjectStats, error) {
	access, err := service.access.RequireProjectAccess(userID, projectID)
	if err != nil {
		return ProjectStats{}, err
	}

	sprints, err := service.sprints.ListByProject(projectID)
	if err != nil {
		return ProjectStats{}, fmt.Errorf("list sprints for stats: %w", err)
	}
	memberIDs, err := service.members.ListUserIDs(projectID)
	if err != nil {
		return ProjectStats{}, fmt.Errorf("list members for stats: %w", err)
	}

	return BuildProjectStats(sprints, countMembers(memberIDs, ProjectOwnerID(access.Project)), now), nil
}

func countMembers(memberIDs []uint, ownerID uint) int {
	total := len(memberIDs) + 1
	for _, memberID := range memberIDs {
		if memberID == ownerID {
			return total - 1
		}
	}
	return total
}

// BuildProjectStats derives every statistic from the sprints and their
// preloaded issues.
func BuildProjectStats(sprints []models.Sprint, totalMembers int, now time.Time) ProjectStats {
	issues := make([]models.Issue, 0)
	for _, sprint := range sprints {
		issues = append(issues, sprint.Issues...)
	}

	statusCounts := make(map[string]int, 4)
	priorityCounts := make(map[string]int, 4)
	unassigned := 0
	recent := 0
	recentSince := now.Add(-statsRecentActivityDays * hoursPerDay)
	for _, issue := range issues {
		statusCounts[issue.Status]++
		priorityCounts[issue.Priority]++
		if issue.AssigneeID == nil {
			unassigned++
		}
		if issue.CreatedAt.After(recentSince) {
			recent++
		}
	}

	stats := ProjectStats{
		Overview: StatsOverview{
			TotalIssues:     len(issues),
			CompletedIssues: statusCounts[models.IssueStatusDone],
			InProgress:      statusCounts[models.IssueStatusInProgress],
			TotalMembers:    totalMembers,
			TotalSprints:    len(sprints),
			RecentActivity:  recent,
		},
		Health: ProjectHealth{
			UnassignedIssues: unassigned,
			CompletionRate:   percentage(statusCounts[models.IssueStatusDone], len(issues)),
		},
		Burndown: []BurndownPoint{},
	}

	for _, status := range []string{models.IssueStatusTodo, models.IssueStatusInProgress, models.IssueStatusInReview, models.IssueStatusDone} {
		stats.IssuesByStatus = append(stats.IssuesByStatus, StatusCount{
			Status: status,
			Label:  models.IssueStatusLabel(status),
			Count:  statusCounts[status],
		})
	}
	for _, priority := range []string{models.IssuePriorityLow, models.IssuePriorityMedium, models.IssuePriorityHigh, models.IssuePriorityCritical} {
		stats.IssuesByPriority = append(stats.IssuesByPriority, PriorityCount{Priority: priority, Count: priorityCounts[priority]})
	}

	stats.Sprints = make([]SprintProgress, 0, len(sprints))
	var activeSprint *models.Sprint
	for index := range sprints {
		sprint := sprints[index]
		completed := countDone(sprint.Issues)
		stats.Sprints = append(stats.Sprints, SprintProgress{
			ID:              sprint.ID,
			Name:            sprint.Name,
			Status:          sprint.Status,
			TotalIssues:     len(sprint.Issues),
			CompletedIssues: completed,
			CompletionRate:  percentage(completed, len(sprint.Issues)),
		})
		if sprint.Status == models.SprintStatusActive {
			stats.Overview.ActiveSprints++
			if activeSprint == nil {
				activeSprint = &sprints[index]
			}
		}
	}

	stats.WeeklyProgress = weeklyCompleted(issues, now)
	if activeSprint != nil {
		stats.Burndown = Burndown(*activeSprint, now)
	}
	return stats
}

func countDone(issues []models.Issue) int {
	done := 0
	for _, issue := range issues {
		if issue.Status == models.IssueStatusDone {
			done++
		}
	}
	return done
}

func percentage(part int, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

// weeklyCompleted buckets done issues by their last update into the four
// seven-day windows ending at now, oldest first (S-4 ... S-1).
func weeklyCompleted(issues []models.Issue, now time.Time) []WeeklyProgress {
	weeks := make([]WeeklyProgress, 0, statsWeeklyWindow)
	for weeksAgo := statsWeeklyWindow - 1; weeksAgo >= 0; weeksAgo-- {
		weekStart := now.Add(-time.Duration(weeksAgo+1) * 7 * hoursPerDay)
		weekEnd := now.Add(-time.Duration(weeksAgo) * 7 * hoursPerDay)

		completed := 0
		for _, issue := range issues {
			if issue.Status != models.IssueStatusDone {
				continue
			}
			if !issue.UpdatedAt.Before(weekStart) && issue.UpdatedAt.Before(weekEnd) {
				completed++
			}
		}
		weeks = append(weeks, WeeklyProgress{Week: fmt.Sprintf("S-%d", weeksAgo+1), Completed: completed})
	}
	return weeks
}

// Burndown returns one point per elapsed sprint day. The ideal line falls
// linearly from the sprint's issue count to zero at the end date; the actual
// line spreads the completed issues evenly over the elapsed days and ends at
// the real remaining count. Sprints without both dates have no burndown.
func Burndown(sprint models.Sprint, now time.Time) []BurndownPoint {
	points := []BurndownPoint{}
	if sprint.StartDate == nil || sprint.EndDate == nil {
		return points
	}

	totalDays := ceilDays(sprint.EndDate.Sub(*sprint.StartDate))
	if totalDays <= 0 {
		return points
	}
	elapsed := ceilDays(now.Sub(*sprint.StartDate))
	if elapsed < 0 {
		return points
	}
	if elapsed > totalDays {
		elapsed = totalDays
	}

	total := len(sprint.Issues)
	completed := countDone(sprint.Issues)
	for day := 0; day <= elapsed; day++ {
		ideal := math.Max(0, float64(total)-float64(total)/float64(totalDays)*float64(day))

		remaining := total - completed
		if day != elapsed {
			burned := int(math.Floor(float64(completed) / float64(elapsed) * float64(day)))
			remaining = max(0, total-burned)
		}

		points = append(points, BurndownPoint{
			Day:       day,
			Remaining: remaining,
			Ideal:     int(math.Round(ideal)),
		})
	}
	return points
}

func ceilDays(duration time.Duration) int {
	return int(math.Ceil(duration.Hours() / 24))
}
