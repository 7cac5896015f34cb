// Command memctl inspects and exercises memkit allocators.
package main

func main() {
	execute()
}
