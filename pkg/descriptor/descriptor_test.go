// pkg/descriptor/descriptor_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Memory FS
// PURPOSE: Test XML and TOML descriptor parsing, selection and payload resolution

package descriptor_test

import (
	"testing"
	"time"

	"github.com/arthur-debert/packdrop/pkg/descriptor"
	"github.com/arthur-debert/packdrop/pkg/errors"
	"github.com/arthur-debert/packdrop/pkg/payload"
	"github.com/arthur-debert/packdrop/pkg/testutil"
	"github.com/arthur-debert/packdrop/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const xmlDescriptor = `<?xml version="1.0"?>
<installation>
  <info>
    <appname>demo</appname>
    <appversion>2.1</appversion>
    <installpath>/opt/demo</installpath>
  </info>
  <variables>
    <variable name="JAVA_OPTS" value="-Xmx1g"/>
  </variables>
  <packs>
    <pack name="core">
      <description>Core files</description>
      <file src="bin/demo" target="bin/demo" override="true"/>
      <file src="lib/native.dll" blockable="auto" override="update"
            mtime="2024-06-01T10:00:00Z" overrideRenameTo="*.bak"/>
      <updatecheck>
        <include name="lib/"/>
        <exclude name="lib/keep.jar"/>
      </updatecheck>
      <executable path="$INSTALL_PATH/bin/setup" stage="postinstall" failure="warn">
        <arg value="--quiet"/>
      </executable>
    </pack>
    <pack name="docs" preselected="no">
      <file src="README.md" override="asktrue" condition="want.docs"/>
    </pack>
  </packs>
</installation>`

const tomlDescriptor = `
[info]
appname = "demo"
install_path = "/opt/demo"

[variables]
JAVA_OPTS = "-Xmx1g"

[[packs]]
name = "core"
description = "Core files"

[[packs.files]]
source = "bin/demo"
override = "true"

[[packs.files]]
source = "lib/native.dll"
blockable = "auto"
mtime = "2024-06-01T10:00:00Z"
rename_to = "*.bak"

[[packs.update_checks]]
includes = ["lib/"]
excludes = ["lib/keep.jar"]

[[packs.executables]]
path = "$INSTALL_PATH/bin/setup"
args = ["--quiet"]
stage = "postinstall"
on_failure = "warn"

[[packs]]
name = "docs"
preselected = false

[[packs.files]]
source = "README.md"
override = "asktrue"
condition = "want.docs"
`

func assertDemo(t *testing.T, d *descriptor.Descriptor) {
	t.Helper()
	assert.Equal(t, "demo", d.AppName)
	assert.Equal(t, "/opt/demo", d.InstallPath)
	assert.Equal(t, "-Xmx1g", d.Variables["JAVA_OPTS"])
	require.Len(t, d.Packs, 2)

	core := d.Pack("core")
	require.NotNil(t, core)
	assert.True(t, core.Selected)
	assert.Equal(t, "Core files", core.Description)
	require.Len(t, core.Files, 2)
	assert.Equal(t, types.OverrideTrue, core.Files[0].Override)
	assert.Equal(t, "bin/demo", core.Files[0].Target)

	native := core.Files[1]
	assert.Equal(t, "lib/native.dll", native.Target, "target defaults to source")
	assert.Equal(t, types.BlockableAuto, native.Blockable)
	assert.Equal(t, types.OverrideUpdate, native.Override)
	assert.True(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC).Equal(native.ModTime))
	require.NotNil(t, native.OverrideRename)
	assert.Equal(t, types.RenameRule{From: "*", To: "*.bak"}, *native.OverrideRename)

	require.Len(t, core.UpdateChecks, 1)
	assert.Equal(t, []string{"lib/"}, core.UpdateChecks[0].Includes)
	assert.Equal(t, []string{"lib/keep.jar"}, core.UpdateChecks[0].Excludes)

	require.Len(t, core.Executables, 1)
	exe := core.Executables[0]
	assert.Equal(t, types.StageInstall, exe.Stage)
	assert.Equal(t, types.FailureWarn, exe.OnFailure)
	assert.Equal(t, []string{"--quiet"}, exe.Args)

	docs := d.Pack("docs")
	require.NotNil(t, docs)
	assert.False(t, docs.Selected)
	assert.Equal(t, types.OverrideAskTrue, docs.Files[0].Override)
	assert.Equal(t, "want.docs", docs.Files[0].Condition)
}

func TestParse_XML(t *testing.T) {
	d, err := descriptor.Parse([]byte(xmlDescriptor), descriptor.FormatXML)
	require.NoError(t, err)
	assertDemo(t, d)
	assert.Equal(t, "2.1", d.AppVersion)
}

func TestParse_TOML(t *testing.T) {
	d, err := descriptor.Parse([]byte(tomlDescriptor), descriptor.FormatTOML)
	require.NoError(t, err)
	assertDemo(t, d)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format descriptor.Format
	}{
		{"malformed xml", "<installation <packs>", descriptor.FormatXML},
		{"wrong root", "<project/>", descriptor.FormatXML},
		{"bad override", `<installation><packs><pack name="a"><file src="x" override="maybe"/></pack></packs></installation>`, descriptor.FormatXML},
		{"duplicate pack", `<installation><packs><pack name="a"/><pack name="a"/></packs></installation>`, descriptor.FormatXML},
		{"unnamed pack", "[[packs]]\ndescription = \"x\"\n", descriptor.FormatTOML},
		{"bad toml", "[[packs]\n", descriptor.FormatTOML},
		{"bad mtime", "[[packs]]\nname = \"a\"\n[[packs.files]]\nsource = \"x\"\nmtime = \"yesterday\"\n", descriptor.FormatTOML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := descriptor.Parse([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrDescriptorParse), "got %v", err)
		})
	}
}

func TestLoad_ByExtension(t *testing.T) {
	fsys := testutil.NewMemFS()
	testutil.WriteFile(t, fsys, "/work/install.toml", tomlDescriptor, time.Time{})

	d, err := descriptor.Load(fsys, "/work/install.toml")
	require.NoError(t, err)
	assert.Len(t, d.Packs, 2)

	_, err = descriptor.Load(fsys, "/work/install.json")
	assert.True(t, errors.IsErrorCode(err, errors.ErrDescriptorRead))
}

func TestSelect(t *testing.T) {
	d, err := descriptor.Parse([]byte(xmlDescriptor), descriptor.FormatXML)
	require.NoError(t, err)

	require.NoError(t, d.Select("docs"))
	assert.False(t, d.Pack("core").Selected)
	assert.True(t, d.Pack("docs").Selected)

	err = d.Select("missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrPackNotFound))
}

func TestResolveAndInstallation(t *testing.T) {
	fsys := testutil.NewMemFS()
	stamp := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	testutil.WriteFile(t, fsys, "/payload/core/bin/demo", "#!/bin/sh\n", stamp)
	testutil.WriteFile(t, fsys, "/payload/core/lib/native.dll", "MZ", stamp)
	testutil.WriteFile(t, fsys, "/payload/docs/README.md", "# demo", stamp)

	d, err := descriptor.Parse([]byte(xmlDescriptor), descriptor.FormatXML)
	require.NoError(t, err)
	require.NoError(t, d.Resolve(payload.NewDir(fsys, "/payload")))

	core := d.Pack("core")
	assert.EqualValues(t, 10, core.Files[0].Length)
	assert.True(t, stamp.Equal(core.Files[0].ModTime))
	assert.Equal(t, 2024, core.Files[1].ModTime.Year(), "declared mtime kept")

	inst := d.Installation("/srv/demo")
	assert.Equal(t, "/srv/demo", inst.InstallPath)
	assert.Equal(t, "/srv/demo", inst.Variables["INSTALL_PATH"])
	assert.Equal(t, "demo", inst.Variables["APP_NAME"])
	assert.Equal(t, "-Xmx1g", inst.Variables["JAVA_OPTS"])

	assert.Equal(t, "/opt/demo", d.Installation("").InstallPath)
}
