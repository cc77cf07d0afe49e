package types

// Installation is the fully resolved input of one engine run.
type Installation struct {
	// InstallPath is the installation root
	InstallPath string

	// Packs lists every known pack; only selected ones are installed
	Packs []*Pack

	// Variables is the variable snapshot persisted with the record
	Variables map[string]string
}

// UpdateChecks collects the update checks of the selected packs.
func (i *Installation) UpdateChecks() []UpdateCheck {
	var checks []UpdateCheck
	for _, p := range SelectedPacks(i.Packs) {
		checks = append(checks, p.UpdateChecks...)
	}
	return checks
}
