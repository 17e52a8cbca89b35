// Command adminctl creates an administrator account directly in the
// credential store. There is deliberately no HTTP route for this: admin
// accounts are provisioned out of band by an operator.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/campuslink/campuslink/internal/server/config"
	"github.com/campuslink/campuslink/internal/server/repositories/repomanager"
	"github.com/campuslink/campuslink/internal/server/users"
)

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	rm, err := repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	svc := users.NewService(rm.Users(), cfg)

	reader := bufio.NewReader(os.Stdin)

	req := &users.RegistrationRequest{}
	fields := []struct {
		label string
		dst   *string
	}{
		{"Full name", &req.Name},
		{"Phone number", &req.PhoneNo},
		{"Email", &req.Email},
		{"Username", &req.UserName},
		{"Gender", &req.Gender},
	}
	for _, f := range fields {
		v, err := prompt(reader, f.label)
		if err != nil {
			log.Fatalf("input error: %v", err)
		}
		*f.dst = v
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		log.Fatalf("input error: %v", err)
	}
	req.Password = string(password)

	admin, err := svc.RegisterAdmin(ctx, req)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	fmt.Println("Administrator created, id =", admin.ID)
}
