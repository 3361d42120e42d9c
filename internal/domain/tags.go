package domain

import "strings"

// TicketTags is the display vocabulary offered on the ticket form.
var TicketTags = []string{
	"Sin WiFi",
	"Impresora",
	"Proyector",
	"Notebook/PC",
	"Recepción",
	"Cocina",
	"Huésped",
	"Correo",
	"Software",
	"Accesos",
	"Otro",
}

var knownTags = func() map[string]struct{} {
	set := make(map[string]struct{}, len(TicketTags))
	for _, tag := range TicketTags {
		set[strings.ToLower(tag)] = struct{}{}
	}
	return set
}()

// IsKnownTag reports whether tag belongs to the vocabulary, ignoring case.
func IsKnownTag(tag string) bool {
	_, ok := knownTags[strings.ToLower(tag)]
	return ok
}
