package data

import (
	"bytes"
	"encoding/json"

	"github.com/liliang-cn/catalog/internal/store"
	"github.com/liliang-cn/catalog/internal/validator"
)

type Movie struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Director    string   `json:"director"`
	Duration    Runtime  `json:"duration"`
	Budget      *float64 `json:"budget,omitempty"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// clone 返回不与集合共享 Budget 指针的副本
func (m Movie) clone() *Movie {
	if m.Budget != nil {
		b := *m.Budget
		m.Budget = &b
	}
	return &m
}

// ValidateMovie 校验完整的电影记录, 用于新建和整体替换
func ValidateMovie(v *validator.Validator, movie *Movie) {
	v.Check(validator.NotBlank(movie.Title), "title", "must be provided")
	v.Check(len(movie.Title) <= 500, "title", "must not be more than 500 bytes long")

	v.Check(validator.NotBlank(movie.Director), "director", "must be provided")
	v.Check(len(movie.Director) <= 500, "director", "must not be more than 500 bytes long")

	v.Check(movie.Duration != 0, "duration", "must be provided")
	v.Check(movie.Duration > 0, "duration", "must be a positive integer")

	if movie.Budget != nil {
		v.Check(*movie.Budget > 0, "budget", "must be a positive number")
	}

	if movie.ImageURL != "" {
		v.Check(validator.IsURL(movie.ImageURL), "imageUrl", "must be an absolute http or https URL")
	}
}

// NullableFloat 区分字段缺失和显式的 null
// Set 为 true 且 Value 为 nil 表示客户端要求清空该字段
type NullableFloat struct {
	Set   bool
	Value *float64
}

// SetFloat 返回一个带值的 NullableFloat
func SetFloat(f float64) NullableFloat {
	return NullableFloat{Set: true, Value: &f}
}

func (n *NullableFloat) UnmarshalJSON(b []byte) error {
	n.Set = true

	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	n.Value = &f

	return nil
}

// MoviePatch 部分更新, nil 字段表示客户端没有提供
// budget 可以用 null 清空
type MoviePatch struct {
	Title       *string       `json:"title"`
	Director    *string       `json:"director"`
	Duration    *Runtime      `json:"duration"`
	Budget      NullableFloat `json:"budget"`
	Description *string       `json:"description"`
	ImageURL    *string       `json:"imageUrl"`
}

// ValidateMoviePatch 逐个校验客户端提供的字段
func ValidateMoviePatch(v *validator.Validator, p MoviePatch) {
	if p.Title != nil {
		v.Check(validator.NotBlank(*p.Title), "title", "must not be empty")
		v.Check(len(*p.Title) <= 500, "title", "must not be more than 500 bytes long")
	}

	if p.Director != nil {
		v.Check(validator.NotBlank(*p.Director), "director", "must not be empty")
		v.Check(len(*p.Director) <= 500, "director", "must not be more than 500 bytes long")
	}

	if p.Duration != nil {
		v.Check(*p.Duration > 0, "duration", "must be a positive integer")
	}

	if p.Budget.Value != nil {
		v.Check(*p.Budget.Value > 0, "budget", "must be a positive number")
	}

	if p.ImageURL != nil && *p.ImageURL != "" {
		v.Check(validator.IsURL(*p.ImageURL), "imageUrl", "must be an absolute http or https URL")
	}
}

func (p MoviePatch) apply(m *Movie) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Director != nil {
		m.Director = *p.Director
	}
	if p.Duration != nil {
		m.Duration = *p.Duration
	}
	if p.Budget.Set {
		m.Budget = nil
		if p.Budget.Value != nil {
			b := *p.Budget.Value
			m.Budget = &b
		}
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.ImageURL != nil {
		m.ImageURL = *p.ImageURL
	}
}

// MovieModel 电影模型, 整个集合保存在一个 JSON 文件中
type MovieModel struct {
	File *store.File[Movie]
}

// GetAll 返回满足过滤条件的电影, 按插入顺序
func (m MovieModel) GetAll(filters MovieFilters) ([]*Movie, error) {
	all, err := m.File.Read()
	if err != nil {
		return nil, err
	}

	movies := []*Movie{}
	for _, movie := range all {
		if filters.match(movie) {
			movies = append(movies, movie.clone())
		}
	}

	return movies, nil
}

// Get 根据 ID 获取电影
func (m MovieModel) Get(id int64) (*Movie, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	movies, err := m.File.Read()
	if err != nil {
		return nil, err
	}

	i := indexOfMovie(movies, id)
	if i == -1 {
		return nil, ErrRecordNotFound
	}

	return movies[i].clone(), nil
}

// Insert 新建电影, 分配 ID 后写回传入的 movie, 调用方负责先用 ValidateMovie 校验
// 已存在相同 title 和 director 的电影时返回 ErrDuplicateRecord
func (m MovieModel) Insert(movie *Movie) error {
	var created Movie
	err := m.File.Update(func(movies []Movie) ([]Movie, error) {
		for i := range movies {
			if movies[i].Title == movie.Title && movies[i].Director == movie.Director {
				return nil, ErrDuplicateRecord
			}
		}

		id, err := nextMovieID(movies)
		if err != nil {
			return nil, err
		}

		created = *movie.clone()
		created.ID = id

		return append(movies, created), nil
	})
	if err != nil {
		return err
	}

	movie.ID = created.ID

	return nil
}

// Update 把 patch 中提供的字段合并到已有电影上, 返回合并后的记录
func (m MovieModel) Update(id int64, patch MoviePatch) (*Movie, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	var updated Movie
	err := m.File.Update(func(movies []Movie) ([]Movie, error) {
		i := indexOfMovie(movies, id)
		if i == -1 {
			return nil, ErrRecordNotFound
		}

		updated = *movies[i].clone()
		patch.apply(&updated)
		movies[i] = updated

		return movies, nil
	})
	if err != nil {
		return nil, err
	}

	return updated.clone(), nil
}

// Replace 用 movie 整体替换同 ID 的电影, 不存在时以该 ID 新建
// created 表示是否新建了记录
func (m MovieModel) Replace(movie *Movie) (created bool, err error) {
	if movie.ID < 1 {
		return false, &ValidationError{Errors: map[string]string{"id": "must be a positive integer"}}
	}

	replacement := *movie.clone()
	err = m.File.Update(func(movies []Movie) ([]Movie, error) {
		i := indexOfMovie(movies, replacement.ID)
		if i == -1 {
			created = true
			return append(movies, replacement), nil
		}

		movies[i] = replacement

		return movies, nil
	})
	if err != nil {
		return false, err
	}

	return created, nil
}

// Delete 删除电影并返回被删除的记录
func (m MovieModel) Delete(id int64) (*Movie, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	var deleted Movie
	err := m.File.Update(func(movies []Movie) ([]Movie, error) {
		i := indexOfMovie(movies, id)
		if i == -1 {
			return nil, ErrRecordNotFound
		}

		deleted = movies[i]

		return append(movies[:i], movies[i+1:]...), nil
	})
	if err != nil {
		return nil, err
	}

	return deleted.clone(), nil
}

func indexOfMovie(movies []Movie, id int64) int {
	for i := range movies {
		if movies[i].ID == id {
			return i
		}
	}

	return -1
}
