package banner

import "fmt"

const Version = "1.0.0"

func Print() {
	banner := `
    ___    __          __ _    ___
   /   |  / /__  _____/ /| |  / (_)__ _      __
  / /| | / / _ \/ ___/ __/ | / / / _ \ | /| / /
 / ___ |/ /  __/ /  / /_ | |/ / /  __/ |/ |/ /
/_/  |_/_/\___/_/   \__/ |___/_/\___/|__/|__/
                     v%s - Alert Report Engine
    `
	fmt.Printf(banner, Version)
	fmt.Println("\n------------------------------------------------")
}
