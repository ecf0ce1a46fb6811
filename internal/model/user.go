package model

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// may define separate response types with appropriate JSON tags.
// The email address is the primary key: the booking engine only
// ever reads user rows for existence checks and never mutates them.
//
// Fields:
//  Email        – unique email address, primary key.
//  FirstName    – given name of the user.
//  LastName     – family name of the user.
//  Phone        – contact phone number.
//  PasswordHash – bcrypt hashed password.
type User struct {
    Email        string // users.email
    FirstName    string // users.fname
    LastName     string // users.lname
    Phone        string // users.phone
    PasswordHash string // users.pwd
}
