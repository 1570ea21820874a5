// Command sdmtap connects to a PC/SC reader, taps an NTAG 424 DNA tag
// provisioned for Secure Dynamic Messaging, and decodes and verifies the tap.
package main

func main() {
	Execute()
}
