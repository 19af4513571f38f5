package services

// CardTheme is the colour scheme of a bounty card in a list
type CardTheme struct {
	Name   string `json:"name"`
	Accent string `json:"accent"`
}

var cardThemes = []CardTheme{
	{Name: "amber", Accent: "#F7931A"},
	{Name: "violet", Accent: "#7B61FF"},
	{Name: "teal", Accent: "#14B8A6"},
	{Name: "rose", Accent: "#F43F5E"},
}

// ThemeForIndex picks the card theme for position index in a page.
// The result depends only on index.
func ThemeForIndex(index int) CardTheme {
	if index < 0 {
		index = -index
	}
	return cardThemes[index%len(cardThemes)]
}
