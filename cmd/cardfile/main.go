// Command cardfile manages an address book stored as vCard-derived contacts.
package main

import "github.com/mesh-intelligence/cardfile/internal/cli"

func main() {
	cli.Execute()
}
