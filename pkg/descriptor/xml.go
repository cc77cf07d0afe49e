package descriptor

import (
	"strings"

	"github.com/arthur-debert/packdrop/pkg/errors"
	"github.com/arthur-debert/packdrop/pkg/types"
	"github.com/beevik/etree"
)

// parseXML reads the <installation> document:
//
//	<installation>
//	  <info><appname/><appversion/><installpath/></info>
//	  <variables><variable name="" value=""/></variables>
//	  <packs>
//	    <pack name="" preselected="yes">
//	      <description/>
//	      <file src="" target="" override="" blockable="" condition=""
//	            mtime="" overrideRenameFrom="" overrideRenameTo=""/>
//	      <updatecheck><include name=""/><exclude name=""/></updatecheck>
//	      <executable path="" stage="" condition="" failure=""><arg value=""/></executable>
//	    </pack>
//	  </packs>
//	</installation>
func parseXML(data []byte) (*Descriptor, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrDescriptorParse, "invalid XML descriptor")
	}
	root := doc.SelectElement("installation")
	if root == nil {
		return nil, errors.New(errors.ErrDescriptorParse, "missing <installation> root element")
	}

	d := &Descriptor{Variables: map[string]string{}}
	if info := root.SelectElement("info"); info != nil {
		d.AppName = childText(info, "appname")
		d.AppVersion = childText(info, "appversion")
		d.InstallPath = childText(info, "installpath")
	}
	if vars := root.SelectElement("variables"); vars != nil {
		for _, v := range vars.SelectElements("variable") {
			name := v.SelectAttrValue("name", "")
			if name == "" {
				return nil, errors.New(errors.ErrDescriptorParse, "variable without a name")
			}
			d.Variables[name] = v.SelectAttrValue("value", "")
		}
	}

	packs := root.SelectElement("packs")
	if packs == nil {
		return d, nil
	}
	for _, el := range packs.SelectElements("pack") {
		pack, err := xmlPack(el)
		if err != nil {
			return nil, err
		}
		d.Packs = append(d.Packs, pack)
	}
	return d, nil
}

func xmlPack(el *etree.Element) (*types.Pack, error) {
	pack := &types.Pack{
		Name:        el.SelectAttrValue("name", ""),
		Description: childText(el, "description"),
		Selected:    parseBool(el.SelectAttrValue("preselected", ""), true),
	}

	for _, f := range el.SelectElements("file") {
		pf, err := fileSpec{
			source:     f.SelectAttrValue("src", ""),
			target:     f.SelectAttrValue("target", ""),
			override:   f.SelectAttrValue("override", ""),
			blockable:  f.SelectAttrValue("blockable", ""),
			renameFrom: f.SelectAttrValue("overrideRenameFrom", ""),
			renameTo:   f.SelectAttrValue("overrideRenameTo", ""),
			condition:  f.SelectAttrValue("condition", ""),
			mtime:      f.SelectAttrValue("mtime", ""),
		}.build()
		if err != nil {
			return nil, err
		}
		pack.Files = append(pack.Files, pf)
	}

	for _, uc := range el.SelectElements("updatecheck") {
		check := types.UpdateCheck{}
		for _, inc := range uc.SelectElements("include") {
			check.Includes = append(check.Includes, inc.SelectAttrValue("name", ""))
		}
		for _, exc := range uc.SelectElements("exclude") {
			check.Excludes = append(check.Excludes, exc.SelectAttrValue("name", ""))
		}
		pack.UpdateChecks = append(pack.UpdateChecks, check)
	}

	for _, x := range el.SelectElements("executable") {
		spec := executableSpec{
			path:      x.SelectAttrValue("path", ""),
			stage:     x.SelectAttrValue("stage", ""),
			condition: x.SelectAttrValue("condition", ""),
			failure:   x.SelectAttrValue("failure", ""),
		}
		for _, arg := range x.SelectElements("arg") {
			spec.args = append(spec.args, arg.SelectAttrValue("value", ""))
		}
		exe, err := spec.build()
		if err != nil {
			return nil, err
		}
		pack.Executables = append(pack.Executables, exe)
	}
	return pack, nil
}

func childText(el *etree.Element, tag string) string {
	if child := el.SelectElement(tag); child != nil {
		return strings.TrimSpace(child.Text())
	}
	return ""
}
