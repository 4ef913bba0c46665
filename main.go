package main

import (
	"fmt"

	_ "github.com/dexfetch/go-dex/cache"
	_ "github.com/dexfetch/go-dex/dex"
	_ "github.com/dexfetch/go-dex/logger"
	_ "github.com/dexfetch/go-dex/request"
)

func main() {
	fmt.Println("go-dex")
}
