// Command ankitidy normalizes the Text field of Anki notes through a
// local AnkiConnect service.
package main

import "github.com/gaurav-prasanna/ankitidy/cmd"

func main() {
	cmd.Execute()
}
