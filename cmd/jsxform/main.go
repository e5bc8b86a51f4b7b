// Command jsxform translates a homoiconic source AST, read as JSON,
// into a module-based target AST, emitted as JSON.
package main

func main() {
	Execute()
}
