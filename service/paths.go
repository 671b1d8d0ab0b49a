package service

const (
	HomePath   = "/"
	EventsPath = "/eventos"
	FAQPath    = "/preguntas-frecuentes"
	CapsPath   = "/gorros-de-natacion"
)

func EventPath(slug string) string {
	return EventsPath + "/" + slug
}
