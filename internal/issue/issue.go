// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	DriverManifestNotFoundId
	DriverLibraryMissingId
	LayerManifestParseErrorId
	RuntimeNotFoundId
	ValidationToolNotFoundId
	ValidationFailedId
	ReportWriteFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the vkvia configuration file.

## Configuration file locations:
- Linux: ~/.config/vkvia/config.yaml
- macOS: ~/Library/Application Support/vkvia/config.yaml
- Windows: %APPDATA%\vkvia\config.yaml

## Things you can try:
- Check the configuration syntax
- Show the effective configuration:
~~~
$ vkvia config show
~~~

- Remove the config file to use defaults:
~~~
$ rm ~/.config/vkvia/config.yaml
~~~

## Example configuration:
~~~yaml
output:
  format: "html"
  unique: true

search:
  extra_driver_dirs:
    - "/opt/site/icd.d"

validation:
  enabled: true
~~~`,
	}

	driverManifestNotFoundIssue = &Issue{
		id: DriverManifestNotFoundId,
		mdMsg: `
# No Vulkan driver manifest found!

No driver (ICD) manifest was found in any search location, so no Vulkan
application can run on this system.

## Search locations (all are checked):
1. The platform registry (Windows)
2. Standard directories such as /etc/vulkan/icd.d and /usr/share/vulkan/icd.d
3. Directories listed in VK_DRIVERS_PATH
4. Files listed in VK_ICD_FILENAMES

## Things you can try:
- Install or reinstall your GPU vendor's driver package
- Check VK_ICD_FILENAMES is not pointing at a deleted file:
~~~
$ echo $VK_ICD_FILENAMES
~~~

- Re-run with the full report for the exact locations checked:
~~~
$ vkvia report --format console
~~~`,
	}

	driverLibraryMissingIssue = &Issue{
		id: DriverLibraryMissingId,
		mdMsg: `
# Driver library missing or unloadable!

A driver manifest was found, but the library it names could not be located
or failed to load.

## Common causes:
- The driver package was partially removed, leaving the manifest behind
- The manifest's library_path points at the wrong location
- Architecture mismatch (32-bit library on a 64-bit loader, or vice versa)
- A shared-library dependency of the driver is missing

## Things you can try:
- Reinstall the GPU driver package
- Check the loader diagnostic in the report for the exact dlopen error
- Verify the library architecture matches your application`,
	}

	layerManifestParseErrorIssue = &Issue{
		id: LayerManifestParseErrorId,
		mdMsg: `
# Failed to parse a layer manifest!

A layer manifest contains invalid JSON. The loader will skip it, which can
silently disable the layer.

## Things you can try:
- Check the parse detail in the report for the exact file and position
- Validate the file with a JSON tool
- Reinstall the package that owns the manifest`,
	}

	runtimeNotFoundIssue = &Issue{
		id: RuntimeNotFoundId,
		mdMsg: `
# Vulkan runtime not found!

The Vulkan loader library itself (libvulkan / vulkan-1.dll) was not found.
Applications link against the loader, so nothing Vulkan can start without it.

## Things you can try:
- Linux: install the loader package:
  - Debian/Ubuntu: ` + "`sudo apt install libvulkan1`" + `
  - Fedora: ` + "`sudo dnf install vulkan-loader`" + `
- Windows: reinstall your GPU driver; the runtime ships with it
- Install the Vulkan SDK from https://vulkan.lunarg.com`,
	}

	validationToolNotFoundIssue = &Issue{
		id: ValidationToolNotFoundId,
		mdMsg: `
# vkcube not found!

The installation could not be smoke-tested because the vkcube demo is not
installed. This does not mean the installation is broken.

## Things you can try:
- Install the Vulkan tools package:
  - Debian/Ubuntu: ` + "`sudo apt install vulkan-tools`" + `
  - Fedora: ` + "`sudo dnf install vulkan-tools`" + `
- Install the Vulkan SDK, which bundles the demo
- Disable the smoke test:
~~~yaml
validation:
  enabled: false
~~~`,
	}

	validationFailedIssue = &Issue{
		id: ValidationFailedId,
		mdMsg: `
# Validation run failed!

The vkcube demo ran but exited with an error, so the installed stack cannot
bring up a working swapchain end to end.

## Things you can try:
- Check the demo output captured in the report
- Cross-check the driver section: a missing or unloadable driver library
  usually explains the failure
- Run the demo by hand for interactive diagnostics:
~~~
$ vkcube --c 100 --suppress_popups
~~~`,
	}

	reportWriteFailedIssue = &Issue{
		id: ReportWriteFailedId,
		mdMsg: `
# Failed to write the report!

The report could not be written to the requested location.

## Things you can try:
- Check the output directory exists and is writable
- Pick a different location:
~~~
$ vkvia report --output-path ~/vkvia.html
~~~

- When no path is given and the current directory is read-only, the report
  falls back to your home directory`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- Writing the report to a protected directory
- Reading a manifest owned by another user

## Things you can try:
- Check file/directory permissions
- Write the report somewhere you own:
~~~
$ vkvia report --output-path ~/vkvia.html
~~~`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		driverManifestNotFoundIssue.Id():  driverManifestNotFoundIssue,
		driverLibraryMissingIssue.Id():    driverLibraryMissingIssue,
		layerManifestParseErrorIssue.Id(): layerManifestParseErrorIssue,
		runtimeNotFoundIssue.Id():         runtimeNotFoundIssue,
		validationToolNotFoundIssue.Id():  validationToolNotFoundIssue,
		validationFailedIssue.Id():        validationFailedIssue,
		reportWriteFailedIssue.Id():       reportWriteFailedIssue,
		permissionDeniedIssue.Id():        permissionDeniedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
