package main

import (
	"EventManagement/configs"
	"EventManagement/database"
	"EventManagement/jobs"
	"EventManagement/routers"
	"fmt"
)

func main() {
	configs.LoadFileConfig()
	//Kết nối đến database
	err := database.ConnectMongo()
	if err != nil {
		fmt.Println(err)
	}
	//Kết nối đến redis
	err = database.ConnectRedis()
	if err != nil {
		fmt.Println(err)
	}
	//Worker gửi mail vé
	go jobs.StartEmailQueue()
	//Đăng ký router
	if err := routers.SetupRouter(); err != nil {
		fmt.Printf("Server chạy thất bại: %v\n", err)
	}
}
