package data

import (
	"github.com/liliang-cn/catalog/internal/store"
	"github.com/liliang-cn/catalog/internal/validator"
)

const (
	LevelEasy   = "easy"
	LevelMedium = "medium"
	LevelHard   = "hard"
)

// Levels 允许的难度
var Levels = []string{LevelEasy, LevelMedium, LevelHard}

// Text 打字练习文本
type Text struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Level   string `json:"level"`
}

func ValidateText(v *validator.Validator, text *Text) {
	v.Check(validator.NotBlank(text.Content), "content", "must be provided")
	v.Check(text.Level != "", "level", "must be provided")
	v.Check(validator.In(text.Level, Levels...), "level", "must be one of easy, medium or hard")
}

// TextPatch 部分更新, nil 字段表示客户端没有提供
type TextPatch struct {
	Content *string `json:"content"`
	Level   *string `json:"level"`
}

func ValidateTextPatch(v *validator.Validator, p TextPatch) {
	if p.Content != nil {
		v.Check(validator.NotBlank(*p.Content), "content", "must not be empty")
	}
	if p.Level != nil {
		v.Check(validator.In(*p.Level, Levels...), "level", "must be one of easy, medium or hard")
	}
}

func (p TextPatch) apply(t *Text) {
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.Level != nil {
		t.Level = *p.Level
	}
}

// TextModel 文本模型, 与电影使用各自独立的文件和锁
type TextModel struct {
	File *store.File[Text]
}

func (m TextModel) GetAll(filters TextFilters) ([]*Text, error) {
	all, err := m.File.Read()
	if err != nil {
		return nil, err
	}

	texts := []*Text{}
	for _, text := range all {
		if filters.match(text) {
			t := text
			texts = append(texts, &t)
		}
	}

	return texts, nil
}

func (m TextModel) Get(id string) (*Text, error) {
	texts, err := m.File.Read()
	if err != nil {
		return nil, err
	}

	i := indexOfText(texts, id)
	if i == -1 {
		return nil, ErrRecordNotFound
	}

	t := texts[i]
	return &t, nil
}

// Insert 新建文本, 生成的 ID 写回传入的 text
func (m TextModel) Insert(text *Text) error {
	var id string
	err := m.File.Update(func(texts []Text) ([]Text, error) {
		id = newTextID(texts)
		return append(texts, Text{ID: id, Content: text.Content, Level: text.Level}), nil
	})
	if err != nil {
		return err
	}

	text.ID = id

	return nil
}

func (m TextModel) Update(id string, patch TextPatch) (*Text, error) {
	var updated Text
	err := m.File.Update(func(texts []Text) ([]Text, error) {
		i := indexOfText(texts, id)
		if i == -1 {
			return nil, ErrRecordNotFound
		}

		updated = texts[i]
		patch.apply(&updated)
		texts[i] = updated

		return texts, nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// Replace 整体替换或以 text.ID 新建
func (m TextModel) Replace(text *Text) (created bool, err error) {
	if !validator.NotBlank(text.ID) {
		return false, &ValidationError{Errors: map[string]string{"id": "must be provided"}}
	}

	replacement := *text
	err = m.File.Update(func(texts []Text) ([]Text, error) {
		i := indexOfText(texts, replacement.ID)
		if i == -1 {
			created = true
			return append(texts, replacement), nil
		}

		texts[i] = replacement

		return texts, nil
	})
	if err != nil {
		return false, err
	}

	return created, nil
}

func (m TextModel) Delete(id string) (*Text, error) {
	var deleted Text
	err := m.File.Update(func(texts []Text) ([]Text, error) {
		i := indexOfText(texts, id)
		if i == -1 {
			return nil, ErrRecordNotFound
		}

		deleted = texts[i]

		return append(texts[:i], texts[i+1:]...), nil
	})
	if err != nil {
		return nil, err
	}

	return &deleted, nil
}

func indexOfText(texts []Text, id string) int {
	for i := range texts {
		if texts[i].ID == id {
			return i
		}
	}

	return -1
}
