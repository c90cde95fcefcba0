// Command crossroads runs the intersection simulator and its traffic
// generator.
package main

func main() {
	Execute()
}
