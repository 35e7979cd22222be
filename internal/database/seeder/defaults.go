package seeder

// Defaults is the seed set used by the migrate command.
func Defaults(password string) []Seeder {
	return []Seeder{
		DemoAccountsSeeder{Password: password},
	}
}
