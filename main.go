package main

import "github.com/killallgit/autocut/cmd"

// @title           autocut API
// @version         1.0.0
// @description     Queues silence removal for recorded video and reports job progress and cut results.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http
func main() {
	cmd.Execute()
}
