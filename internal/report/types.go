package report

import (
	"time"

	"github.com/abhisek/kotoba/internal/quiz"
)

// Thresholds for a session's weak and strong areas.
const (
	WeakAreaThreshold   = 70.0
	StrongAreaThreshold = 80.0
)

// StudySession is the durable summary of one completed quiz.
type StudySession struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	CompletedAt    time.Time       `json:"completedAt"`
	Score          int             `json:"score"`
	TotalQuestions int             `json:"totalQuestions"`
	Accuracy       float64         `json:"accuracy"`
	TimeSpent      float64         `json:"timeSpent"` // minutes
	Categories     []quiz.Category `json:"categories"`
	WeakAreas      []quiz.Category `json:"weakAreas"`
	StrongAreas    []quiz.Category `json:"strongAreas"`
}

// Level is the coarse proficiency label.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelElementary   Level = "Elementary"
	LevelIntermediate Level = "Intermediate"
)

// Status classifies a category's aggregated accuracy.
type Status string

const (
	StatusNeedsWork    Status = "Needs Work"
	StatusGoodProgress Status = "Good Progress"
	StatusMastered     Status = "Mastered"
)

// Priority orders recommendations.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Report is the aggregate view over a user's history.
type Report struct {
	GeneratedAt     time.Time          `json:"generatedAt"`
	Overall         OverallProgress    `json:"overallProgress"`
	Categories      []CategoryAnalysis `json:"categoryAnalysis"`
	WeeklyTrend     []TrendPoint       `json:"weeklyTrend"`
	Recommendations []Recommendation   `json:"recommendations"`
	Goals           Goals              `json:"goals"`
}

// OverallProgress summarizes the whole history.
type OverallProgress struct {
	TotalStudyHours  float64 `json:"totalStudyTime"`
	QuizzesCompleted int     `json:"quizzesCompleted"`
	AverageAccuracy  float64 `json:"averageAccuracy"`
	StudyStreak      int     `json:"studyStreak"`
	Level            Level   `json:"currentLevel"`
}

// CategoryAnalysis is the weighted aggregate for one category.
type CategoryAnalysis struct {
	Category          quiz.Category `json:"category"`
	Accuracy          float64       `json:"accuracy"`
	QuestionsAnswered int           `json:"questionsAnswered"`
	TimeSpent         float64       `json:"timeSpent"` // minutes
	Improvement       float64       `json:"improvement"`
	Status            Status        `json:"status"`
	Recommendations   []string      `json:"recommendations"`
}

// TrendPoint is one day of activity.
type TrendPoint struct {
	Date         time.Time `json:"date"`
	Accuracy     float64   `json:"accuracy"`
	QuizzesTaken int       `json:"quizzesTaken"`
	StudyTime    float64   `json:"studyTime"` // minutes
}

// Recommendation is a prioritized study suggestion.
type Recommendation struct {
	Priority        Priority      `json:"priority"`
	Category        quiz.Category `json:"category"`
	Suggestion      string        `json:"suggestion"`
	TimeRecommended string        `json:"timeRecommended"`
}

// Goals holds short- and long-term goal text.
type Goals struct {
	ShortTerm []string `json:"shortTerm"`
	LongTerm  []string `json:"longTerm"`
}
