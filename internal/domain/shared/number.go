package shared

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateNumber returns a human-readable document number of the form PREFIX-YYYYMMDD-XXXXXX
func GenerateNumber(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix)
}
