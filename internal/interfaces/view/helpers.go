package view

import "github.com/a-h/templ"

const overlayID = "mobile-menu"

// CategoryHref ссылка вкладки; работает и на сервере, и в статическом экспорте
func CategoryHref(basePath, category string) string {
	if category == "" {
		return basePath + "/#menu"
	}
	return basePath + "/category/" + category + "/#menu"
}

// safeSrc прогоняет src через санитайзер templ: генератор проверяет только href и action
func safeSrc(raw string) string {
	return string(templ.URL(raw))
}

// toggleTarget: без JavaScript переключатель открывает оверлей через :target
func toggleTarget(open bool) string {
	if open {
		return "#"
	}
	return "#" + overlayID
}

func toggleIcon(open bool) string {
	if open {
		return icon("x")
	}
	return icon("menu")
}
