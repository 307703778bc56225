package services

import (
	"context"
	"sort"
	"strings"

	"roomadmin/constants"
	"roomadmin/dto"
	apperrors "roomadmin/errors"
	"roomadmin/models"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// số phòng mới nhất được chấm điểm cho mỗi lần tìm
const searchPoolSize = 100

const (
	nameContainsScore = 10
	nameSimilarScore  = 6
	areaScore         = 5
	tagScore          = 3
	maxTagScore       = 9
)

// normalizeText bỏ dấu tiếng Việt và chuyển về chữ thường
func normalizeText(input string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(input)))
}

// similarity trả về độ giống nhau trong khoảng [0, 1]
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1.0
	}
	distance := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptions)
	sim := 1.0 - float64(distance)/float64(maxLen)
	if sim < 0 {
		return 0
	}
	return sim
}

// SearchRooms tìm gần đúng theo tên, khu vực và tag, không phân biệt dấu
func (s *RoomService) SearchRooms(ctx context.Context, query string, limit int) ([]dto.ScoredRoom, error) {
	q := normalizeText(query)
	if q == "" {
		return nil, apperrors.NewAppError(apperrors.ErrCodeRequiredField, "Từ khóa tìm kiếm không được để trống", nil)
	}
	_, limit = dto.Normalize(0, limit)

	var rows []models.Room
	if _, err := s.data.Select(ctx, constants.TableRooms, NewQuery().Order("created_at", false).Limit(searchPoolSize), &rows); err != nil {
		return nil, err
	}

	areaMatch := closestArea(rows, q)
	scored := make([]dto.ScoredRoom, 0, len(rows))
	for _, room := range rows {
		if score := scoreRoom(q, room, areaMatch); score > 0 {
			scored = append(scored, dto.ScoredRoom{Room: room, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// closestArea trả về khu vực gần với query nhất, rỗng nếu không có
func closestArea(rows []models.Room, q string) string {
	seen := make(map[string]bool)
	areas := make([]string, 0, len(rows))
	for _, room := range rows {
		if area := normalizeText(room.Area); area != "" && !seen[area] {
			seen[area] = true
			areas = append(areas, area)
		}
	}
	if len(areas) == 0 {
		return ""
	}
	best := closestmatch.New(areas, []int{2, 3}).Closest(q)
	if best == "" {
		return ""
	}
	if strings.Contains(q, best) || similarity(q, best) >= 0.6 {
		return best
	}
	return ""
}

func scoreRoom(q string, room models.Room, areaMatch string) int {
	score := 0

	name := normalizeText(room.Name)
	switch {
	case name != "" && (strings.Contains(name, q) || strings.Contains(q, name)):
		score += nameContainsScore
	case similarity(q, name) >= 0.7:
		score += nameSimilarScore
	}

	if areaMatch != "" && normalizeText(room.Area) == areaMatch {
		score += areaScore
	}

	tags := 0
	for _, tag := range room.Tags {
		t := normalizeText(tag)
		if t == "" {
			continue
		}
		if strings.Contains(q, t) || similarity(q, t) > 0.7 {
			tags += tagScore
			if tags >= maxTagScore {
				break
			}
		}
	}
	return score + tags
}
