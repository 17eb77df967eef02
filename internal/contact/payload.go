package contact

// Payload is the body of a Discord webhook execution.
type Payload struct {
	Content string  `json:"content"`
	Embeds  []Embed `json:"embeds"`
}

// Embed is a single rich embed of a webhook message.
type Embed struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
	Color  int     `json:"color"`
}

// Field is a name/value pair inside an embed.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

const (
	payloadContent = "Ny kontaktskjema-innsending!"
	embedTitle     = "Kontaktskjema Detaljer"
	embedColor     = 3447003
)

// BuildPayload maps a submitted form onto the webhook message.
func BuildPayload(f Form) Payload {
	return Payload{
		Content: payloadContent,
		Embeds: []Embed{{
			Title: embedTitle,
			Fields: []Field{
				{Name: "Navn", Value: f.Name},
				{Name: "E-post", Value: f.Email},
				{Name: "Emne", Value: f.Subject},
				{Name: "Melding", Value: f.Message},
			},
			Color: embedColor,
		}},
	}
}
