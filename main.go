package main

import "github.com/flame-cai/video-qna-backend/cmd"

func main() {
	cmd.Execute()
}
