package graphql

// GraphQL operations consumed by the client. Field sets mirror what the UI
// actually renders; the directory listing additionally fetches page meta.

const loginMutation = `
mutation Login($email: String!, $password: String!) {
  login(email: $email, password: $password) {
    user {
      id
      email
      name
      role
      avatar
      createdAt
      updatedAt
    }
    accessToken
    refreshToken
  }
}`

const registerMutation = `
mutation Register($email: String!, $name: String!, $password: String!) {
  register(email: $email, name: $name, password: $password) {
    user {
      id
      email
      name
      role
      avatar
      createdAt
      updatedAt
    }
    accessToken
    refreshToken
  }
}`

const logoutMutation = `
mutation Logout {
  logout {
    success
    message
  }
}`

const refreshTokenMutation = `
mutation RefreshToken($refreshToken: String!) {
  refreshToken(refreshToken: $refreshToken) {
    accessToken
  }
}`

const meQuery = `
query GetCurrentUser {
  me {
    id
    email
    name
    role
    avatar
    createdAt
    updatedAt
  }
}`

const userQuery = `
query GetUserByID($id: ID!) {
  user(id: $id) {
    id
    email
    name
    role
    avatar
    createdAt
    updatedAt
  }
}`

const usersQuery = `
query GetUsers($page: Int, $pageSize: Int) {
  users(page: $page, pageSize: $pageSize) {
    data {
      id
      email
      name
      role
      avatar
      createdAt
      updatedAt
    }
    meta {
      page
      pageSize
      total
      totalPages
    }
  }
}`
