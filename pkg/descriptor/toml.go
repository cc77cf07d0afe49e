package descriptor

import (
	"github.com/arthur-debert/packdrop/pkg/errors"
	"github.com/arthur-debert/packdrop/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
)

type tomlDescriptor struct {
	Info struct {
		AppName     string `toml:"appname"`
		AppVersion  string `toml:"appversion"`
		InstallPath string `toml:"install_path"`
	} `toml:"info"`
	Variables map[string]string `toml:"variables"`
	Packs     []tomlPack        `toml:"packs"`
}

type tomlPack struct {
	Name         string            `toml:"name"`
	Description  string            `toml:"description"`
	Preselected  *bool             `toml:"preselected"`
	Files        []tomlFile        `toml:"files"`
	UpdateChecks []tomlUpdateCheck `toml:"update_checks"`
	Executables  []tomlExecutable  `toml:"executables"`
}

type tomlFile struct {
	Source     string `toml:"source"`
	Target     string `toml:"target"`
	Override   string `toml:"override"`
	Blockable  string `toml:"blockable"`
	RenameFrom string `toml:"rename_from"`
	RenameTo   string `toml:"rename_to"`
	Condition  string `toml:"condition"`
	ModTime    string `toml:"mtime"`
}

type tomlUpdateCheck struct {
	Includes []string `toml:"includes"`
	Excludes []string `toml:"excludes"`
}

type tomlExecutable struct {
	Path      string   `toml:"path"`
	Args      []string `toml:"args"`
	Stage     string   `toml:"stage"`
	Condition string   `toml:"condition"`
	OnFailure string   `toml:"on_failure"`
}

func parseTOML(data []byte) (*Descriptor, error) {
	var raw tomlDescriptor
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrDescriptorParse, "invalid TOML descriptor")
	}

	d := &Descriptor{
		AppName:     raw.Info.AppName,
		AppVersion:  raw.Info.AppVersion,
		InstallPath: raw.Info.InstallPath,
		Variables:   raw.Variables,
	}
	for _, rp := range raw.Packs {
		pack := &types.Pack{
			Name:        rp.Name,
			Description: rp.Description,
			Selected:    rp.Preselected == nil || *rp.Preselected,
		}
		for _, f := range rp.Files {
			pf, err := fileSpec{
				source:     f.Source,
				target:     f.Target,
				override:   f.Override,
				blockable:  f.Blockable,
				renameFrom: f.RenameFrom,
				renameTo:   f.RenameTo,
				condition:  f.Condition,
				mtime:      f.ModTime,
			}.build()
			if err != nil {
				return nil, err
			}
			pack.Files = append(pack.Files, pf)
		}
		for _, uc := range rp.UpdateChecks {
			pack.UpdateChecks = append(pack.UpdateChecks, types.UpdateCheck{Includes: uc.Includes, Excludes: uc.Excludes})
		}
		for _, x := range rp.Executables {
			exe, err := executableSpec{
				path:      x.Path,
				args:      x.Args,
				stage:     x.Stage,
				condition: x.Condition,
				failure:   x.OnFailure,
			}.build()
			if err != nil {
				return nil, err
			}
			pack.Executables = append(pack.Executables, exe)
		}
		d.Packs = append(d.Packs, pack)
	}
	return d, nil
}
