// Package ranking derives the "popular films" ordering from like counts.
package ranking

import (
	"sort"

	"filmorate/internal/apperrors"
	"filmorate/internal/models"
)

// Top 返回点赞数最多的 count 部电影。
// 点赞数降序，相同时按 ID 升序，保证同样的输入总是得到同样的结果。
// count <= 0 返回 INVALID_ARGUMENT，不做截断。
func Top(films []models.Film, likes map[uint]int, count int) ([]models.FilmWithLikes, error) {
	if count <= 0 {
		return nil, apperrors.InvalidArgument("count must be positive, got %d", count)
	}

	ranked := make([]models.FilmWithLikes, 0, len(films))
	for _, film := range films {
		ranked = append(ranked, models.FilmWithLikes{Film: film, Likes: likes[film.ID]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Likes != ranked[j].Likes {
			return ranked[i].Likes > ranked[j].Likes
		}
		return ranked[i].ID < ranked[j].ID
	})

	if count < len(ranked) {
		ranked = ranked[:count]
	}
	return ranked, nil
}

