// SPDX-License-Identifier: MPL-2.0

package main

import cmd "vkvia-cli/cmd/vkvia"

func main() {
	cmd.Execute()
}
