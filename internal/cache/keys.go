package cache

import "time"

const (
	StudentsKey = "students:all"
	StatsTTL    = 5 * time.Minute
	StudentsTTL = 5 * time.Minute
)

func UserStatsKey(userID string) string {
	return "stats:user:" + userID
}
