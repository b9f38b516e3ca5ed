package main

import "github.com/dbsmedya/recordsdesk/cmd/recordsdesk/cmd"

func main() {
	cmd.Execute()
}
