// skyctl - unified view over machines across Skyfleet datacenters
package main

func main() {
	Execute()
}
