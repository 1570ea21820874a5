// Command sdmverify decodes and verifies an already-captured SDM tap URL
// without needing a reader or tag present, for offline audit and replay
// of webhook deliveries.
package main

func main() {
	Execute()
}
