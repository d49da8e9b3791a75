package models

// Category — элемент статического каталога категорий новостей.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}
