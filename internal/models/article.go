// models содержит доменные сущности сервиса: статья апстрима, закладка,
// страница результатов и каталог категорий.
package models

import "time"

// Article — статья в формате новостного провайдера.
//
// Особенности:
//   - Title, URL, PublishedAt обязательны (проверяются сервисным слоем);
//   - URL — естественный ключ дедупликации закладок;
//   - остальные поля опциональны и копируются как есть.
type Article struct {
	Title       string    `json:"title" validate:"notblank"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url" validate:"notblank"`
	URLToImage  string    `json:"urlToImage,omitempty"`
	PublishedAt time.Time `json:"publishedAt" validate:"required"`
	Source      Source    `json:"source"`
	Category    string    `json:"category,omitempty"`
	Content     string    `json:"content,omitempty"`
}

// Source — издатель статьи.
type Source struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}
