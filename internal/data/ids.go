package data

import (
	"math"

	"github.com/google/uuid"
)

// nextMovieID 返回现有最大 ID 加一, 删除留下的空洞不会被复用
// 最大 ID 已经是 math.MaxInt64 时返回 ErrIDSpaceExhausted
func nextMovieID(movies []Movie) (int64, error) {
	var highest int64
	for i := range movies {
		if movies[i].ID > highest {
			highest = movies[i].ID
		}
	}

	if highest == math.MaxInt64 {
		return 0, ErrIDSpaceExhausted
	}

	return highest + 1, nil
}

// newTextID 生成随机 UUID, 极小概率撞上已有 ID 时重新生成
func newTextID(texts []Text) string {
	for {
		id := uuid.NewString()
		if indexOfText(texts, id) == -1 {
			return id
		}
	}
}
