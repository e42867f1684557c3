package domain

// AvatarGroup is one section of the avatar picker.
type AvatarGroup struct {
	Name  string   `json:"name"`
	Icons []string `json:"icons"`
}

func flaticon(path string) string {
	return "https://cdn-icons-png.flaticon.com/512/" + path + ".png"
}

// AvatarGroups is the built-in avatar catalog.
var AvatarGroups = []AvatarGroup{
	{Name: "Люди", Icons: []string{
		flaticon("4140/4140048"),
		flaticon("4140/4140037"),
		flaticon("4140/4140047"),
		flaticon("3408/3408455"),
		flaticon("1999/1999625"),
	}},
	{Name: "Роботы", Icons: []string{
		flaticon("4712/4712109"),
		flaticon("4712/4712027"),
		flaticon("4712/4712035"),
		flaticon("2040/2040946"),
		flaticon("4233/4233830"),
	}},
	{Name: "Животные", Icons: []string{
		flaticon("616/616408"),
		flaticon("1998/1998627"),
		flaticon("616/616412"),
		flaticon("616/616554"),
		flaticon("235/235359"),
	}},
}

// DefaultAvatar is assigned to new accounts.
var DefaultAvatar = AvatarGroups[0].Icons[0]

// IsCatalogAvatar reports whether url is one of the built-in icons.
func IsCatalogAvatar(url string) bool {
	for _, g := range AvatarGroups {
		for _, icon := range g.Icons {
			if icon == url {
				return true
			}
		}
	}
	return false
}
