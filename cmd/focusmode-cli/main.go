// Command focusmode-cli runs the extraction and simplification pipeline
// once for a single URL and prints the result as JSON.
package main

func main() {
	Execute()
}
