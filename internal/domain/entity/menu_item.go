package entity

// MenuItem представляет позицию меню.
// Неизменяема: создается при загрузке каталога, доступ только через методы.
type MenuItem struct {
	id          int
	name        string
	description string
	price       string
	imageURL    string
}

// NewMenuItem создает позицию меню (Factory Method)
func NewMenuItem(id int, name, description, price, imageURL string) MenuItem {
	return MenuItem{
		id:          id,
		name:        name,
		description: description,
		price:       price,
		imageURL:    imageURL,
	}
}

func (m MenuItem) ID() int {
	return m.id
}

func (m MenuItem) Name() string {
	return m.name
}

func (m MenuItem) Description() string {
	return m.description
}

// Price возвращает уже отформатированную цену, например "$8.99"
func (m MenuItem) Price() string {
	return m.price
}

func (m MenuItem) ImageURL() string {
	return m.imageURL
}
