package configs

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var mpConfig map[string]interface{}

func LoadFileConfig() {
	_ = godotenv.Load()
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}

	filePath := fmt.Sprintf("configs/config.%s.yaml", env)
	data, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatal("Lỗi đọc file config: ", err)
	}

	//Thay biến môi trường trong file YAML bằng giá trị thực tế.
	expandedYaml := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expandedYaml), &mpConfig); err != nil {
		log.Fatal("Lỗi parsing YAML: ", err)
		return
	}

	fmt.Println("Config thành công")
}

func GetServerPort() string {
	server := mpConfig["server"].(map[string]interface{})
	return fmt.Sprintf("%v", server["port"])
}

func GetServerDomain() string {
	server := mpConfig["server"].(map[string]interface{})
	return fmt.Sprintf("%v", server["domain"])
}

func GetAllowedOrigins() []string {
	server := mpConfig["server"].(map[string]interface{})
	raw, ok := server["allowed_origins"].([]interface{})
	if !ok {
		return nil
	}
	origins := make([]string, 0, len(raw))
	for _, origin := range raw {
		origins = append(origins, fmt.Sprintf("%v", origin))
	}
	return origins
}

func GetDatabaseURI() string {
	db := mpConfig["database"].(map[string]interface{})
	return fmt.Sprintf("%v", db["uri"])
}

func GetDatabaseName() string {
	db := mpConfig["database"].(map[string]interface{})
	return fmt.Sprintf("%v", db["name"])
}

func GetJWTSecret() string {
	jwt := mpConfig["jwt"].(map[string]interface{})
	return fmt.Sprintf("%v", jwt["secret_key"])
}

func GetJWTIssuer() string {
	jwt := mpConfig["jwt"].(map[string]interface{})
	return fmt.Sprintf("%v", jwt["issuer"])
}

func GetJWTAccessExp() int {
	jwt := mpConfig["jwt"].(map[string]interface{})
	return int(jwt["jwt_access_token_expiration_time"].(int))
}

func GetRedisAddr() string {
	redis := mpConfig["redis"].(map[string]interface{})
	return fmt.Sprintf("%v", redis["addr"])
}

func GetRedisPassword() string {
	redis := mpConfig["redis"].(map[string]interface{})
	return fmt.Sprintf("%v", redis["password"])
}

func GetRedisDB() int {
	redis := mpConfig["redis"].(map[string]interface{})
	return int(redis["db"].(int))
}

func GetSMTPHost() string {
	smtp := mpConfig["smtp"].(map[string]interface{})
	return fmt.Sprintf("%v", smtp["host"])
}

func GetSMTPPort() string {
	smtp := mpConfig["smtp"].(map[string]interface{})
	return fmt.Sprintf("%v", smtp["port"])
}

func GetSenderEmail() string {
	app := mpConfig["app"].(map[string]interface{})
	return fmt.Sprintf("%v", app["sender_email"])
}

func GetAppPassword() string {
	app := mpConfig["app"].(map[string]interface{})
	return fmt.Sprintf("%v", app["app_password"])
}

// Razorpay
func GetRazorpayKeyID() string {
	razorpay := mpConfig["razorpay"].(map[string]interface{})
	return fmt.Sprintf("%v", razorpay["key_id"])
}

func GetRazorpayKeySecret() string {
	razorpay := mpConfig["razorpay"].(map[string]interface{})
	return fmt.Sprintf("%v", razorpay["key_secret"])
}

func GetRazorpayBaseURL() string {
	razorpay := mpConfig["razorpay"].(map[string]interface{})
	return fmt.Sprintf("%v", razorpay["base_url"])
}

// Ticket
func GetQRCodeSize() int {
	ticket := mpConfig["ticket"].(map[string]interface{})
	return int(ticket["qr_code_size"].(int))
}

func GetRefundDaysBeforeEvent() int {
	ticket := mpConfig["ticket"].(map[string]interface{})
	return int(ticket["refund_days_before_event"].(int))
}

func GetMaxRetries() int {
	jobs := mpConfig["jobs"].(map[string]interface{})
	return jobs["max_retries"].(int)
}
