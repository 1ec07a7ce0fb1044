package main

import "github.com/swiftlang/swift-docc-sub005/cmd"

func main() {
	cmd.Execute()
}
